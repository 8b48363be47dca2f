package config

import "strings"

type AppEnv string

const (
	EnvLocal AppEnv = "local"
	EnvTest  AppEnv = "test"
	EnvDev   AppEnv = "dev"
	EnvPre   AppEnv = "pre"
	EnvProd  AppEnv = "prod"
)

// ResolveAppEnv maps a raw environment name onto a known AppEnv. Anything
// unrecognised, including the empty string, resolves to test.
func ResolveAppEnv(value string) AppEnv {
	switch env := AppEnv(strings.ToLower(strings.TrimSpace(value))); env {
	case EnvLocal, EnvTest, EnvDev, EnvPre, EnvProd:
		return env
	}
	return EnvTest
}

func (e AppEnv) IsNonProd() bool {
	return e == EnvLocal || e == EnvTest || e == EnvDev
}

func (e AppEnv) IsProdLike() bool {
	return e == EnvPre || e == EnvProd
}

// TraceSampleRate is the fraction of requests traced in this environment.
func (e AppEnv) TraceSampleRate() float64 {
	if e.IsNonProd() {
		return 1.0
	}
	return 0.2
}
