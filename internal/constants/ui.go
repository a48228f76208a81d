package constants

// HeaderSeparatorLength is the length of the header separator line.
const HeaderSeparatorLength = 50

// BoxBorderPadding is the padding used in box borders.
const BoxBorderPadding = 2

// SecondsPerMinute is the number of seconds in a minute.
const SecondsPerMinute = 60

// MinutesPerHour is the number of minutes in an hour.
const MinutesPerHour = 60
