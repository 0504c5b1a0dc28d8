package commands

// NewNixEnv exports newNixEnv for testing.
var NewNixEnv = newNixEnv //nolint:gochecknoglobals // test export

// NixString exports nixString for testing.
var NixString = nixString //nolint:gochecknoglobals // test export
