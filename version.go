package robofsm

// Version is the release of the robofsm module and CLI.
var Version = "0.4.0"
