package common

// RequestIDHeaderName is the gRPC metadata key that carries a caller-supplied
// request id. When absent the server generates one.
const RequestIDHeaderName = "x-request-id"

// TimestampLayout is the layout of Device.LastConnection values.
// It fits the VARCHAR(25) column.
const TimestampLayout = "2006-01-02T15:04:05Z07:00"
