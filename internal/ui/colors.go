package ui

// ColorPrimary returns the primary accent color of the active theme.
func ColorPrimary() string { return GetCurrentTheme().Primary }

// ColorSecondary returns the secondary color of the active theme.
func ColorSecondary() string { return GetCurrentTheme().Secondary }

// ColorSuccess returns the success color of the active theme.
func ColorSuccess() string { return GetCurrentTheme().Success }

// ColorWarning returns the warning color of the active theme.
func ColorWarning() string { return GetCurrentTheme().Warning }

// ColorError returns the error color of the active theme.
func ColorError() string { return GetCurrentTheme().Error }

// ColorBold returns the bold escape code of the active theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorReset returns the reset escape code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }
