// Package main generates a single markdown file documenting every kansible command.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kaholo/kansible/cmd/kansible/cmd"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

const optionsHeading = "### Options"

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	if err := writeFile(outFile); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func writeFile(outFile string) error {
	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(filepath.Clean(outFile))
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: error closing file: %v", closeErr)
		}
	}()

	w := bufio.NewWriter(file)
	if err = generateCLIDocs(w, cmd.RootCmd()); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	log.Printf("generated CLI documentation in %s", outFile)
	return nil
}

func generateCLIDocs(w io.Writer, root *cobra.Command) error {
	root.DisableAutoGenTag = true

	intro := "# Kansible CLI Documentation\n\n" +
		"This document lists every kansible command with its flags and examples.\n\n"
	if _, err := io.WriteString(w, intro); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return generateDocs(w, root, 2)
}

func generateDocs(w io.Writer, c *cobra.Command, level int) error {
	if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
		return nil
	}

	if err := writeDocHeader(w, strings.Repeat("#", level), c); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(c, &buf); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", c.CommandPath(), err)
	}
	if options := optionsSection(buf.String()); options != "" {
		if _, err := fmt.Fprintln(w, options); err != nil {
			return fmt.Errorf("writing options: %w", err)
		}
	}

	subcommands := slices.Clone(c.Commands())
	slices.SortFunc(subcommands, func(a, b *cobra.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, sub := range subcommands {
		if err := generateDocs(w, sub, level+1); err != nil {
			return err
		}
	}

	return nil
}

func writeDocHeader(w io.Writer, headingPrefix string, c *cobra.Command) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", headingPrefix, c.CommandPath())
	if c.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Short)
	}
	if c.Long != "" && c.Long != c.Short {
		fmt.Fprintf(&b, "%s\n\n", c.Long)
	}
	if c.Example != "" {
		fmt.Fprintf(&b, "**Examples:**\n\n```bash\n%s\n```\n\n", c.Example)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing heading for %s: %w", c.CommandPath(), err)
	}
	return nil
}

// optionsSection returns the local flags block of cobra's generated markdown,
// stopping before inherited options or the See Also list.
func optionsSection(markdown string) string {
	start := strings.Index(markdown, optionsHeading)
	if start < 0 {
		return ""
	}
	section := markdown[start:]

	rest := section[len(optionsHeading):]
	if end := strings.Index(rest, "\n### "); end >= 0 {
		section = section[:len(optionsHeading)+end]
	}
	return strings.TrimRight(section, "\n") + "\n"
}
