package entities

import "os"

// NixEnv is the evaluation environment handed to every nix tool invocation.
// Empty fields leave the inherited process environment untouched.
type NixEnv struct {
	NixPath       string
	NixpkgsConfig string
}

// Environ returns the process environment with the nix overrides applied.
func (e NixEnv) Environ() []string {
	env := os.Environ()
	if e.NixPath != "" {
		env = append(env, "NIX_PATH="+e.NixPath)
	}
	if e.NixpkgsConfig != "" {
		env = append(env, "NIXPKGS_CONFIG="+e.NixpkgsConfig)
	}
	return env
}
