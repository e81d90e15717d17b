//go:build !android && !ios && (!flatpak || windows || wasm || js)

package gallery

// pickerOSOverride reports whether the platform replaces the in-app
// picker. Plain desktop builds use the in-app one.
func pickerOSOverride(p *imagePicker) bool {
	return false
}
