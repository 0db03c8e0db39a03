package config

// Default obtains the default configuration. ClassToCheck and MethodToCheck
// are left empty and must be provided.
func Default() *Config {
	return &Config{
		RelevantClasses:   []string{},
		BitWidth:          4,
		ObjectScope:       3,
		LoopUnroll:        3,
		RemoveQuantifiers: false,
		UseJavaArithmetic: false,
		OutputDir:         "output",
	}
}
