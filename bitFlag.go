package cfbzip

type BitFlags uint64

// Set sets the specified bit(s) in the flags.
func (f *BitFlags) Set(flag BitFlags) {
	*f |= flag
}

// Clear unsets the specified bit(s) in the flags.
func (f *BitFlags) Clear(flag BitFlags) {
	*f &^= flag // AND NOT
}

// Toggle flips the specified bit(s) in the flags.
func (f *BitFlags) Toggle(flag BitFlags) {
	*f ^= flag
}

// IsSet checks if the specified bit(s) are set.
func (f BitFlags) IsSet(flag BitFlags) bool {
	return f&flag == flag
}

// IsNotSet checks if the specified bit(s) are not set.
func (f BitFlags) IsNotSet(flag BitFlags) bool {
	return f&flag != flag
}

func (c *Config) showFeatures() {
	flagStr := ""
	for _, name := range FlagNames(c.Features) {
		if flagStr != "" {
			flagStr += ", "
		}
		flagStr += name
	}
	if flagStr != "" {
		c.doLog(true, "Features: %v (%s)", flagStr, FlagLetters(c.Features))
	}
}

// FlagLetters returns the command line letters that select flags.
// Sniffing is on by default, so its letter marks it being off.
func FlagLetters(flags BitFlags) string {
	out := ""
	if flags.IsNotSet(FeatureSniff) {
		out += "n"
	}
	if flags.IsSet(FeatureChecksums) {
		out += "s"
	}
	if flags.IsSet(FeatureVerify) {
		out += "y"
	}
	return out
}

// FlagNames returns a slice of human-readable flag names.
func FlagNames(flags BitFlags) []string {
	var out []string
	for x := 1; 1<<x < featureTop; x++ {
		if flags.IsSet(1 << x) {
			out = append(out, flagNames[x])
		}
	}
	return out
}
