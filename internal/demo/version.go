package demo

// Version is reported by the version command and as the service version of the telemetry
// resource. Release builds set it with -ldflags "-X".
var Version = "0.1.0-dev"
