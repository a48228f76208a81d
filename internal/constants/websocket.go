package constants

import "time"

// WebSocketReadLimit bounds the size of the request frame read from a stream client.
const WebSocketReadLimit = 1 << 20

// WebSocketWriteTimeout bounds writing a single frame to a stream client.
const WebSocketWriteTimeout = 10 * time.Second

// WebSocketBufferSize is the read and write buffer size of the upgrader.
const WebSocketBufferSize = 4096
