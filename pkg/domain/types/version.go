package types

// Version is the drydock build version. Overridden at link time.
var Version = "dev"
