package actions

import (
	"os/exec"
	"runtime"
)

// Opener opens a URL for the user.
type Opener interface {
	Open(url string) error
}

// NopOpener ignores every URL. Used on headless servers.
type NopOpener struct{}

// Open implements Opener.
func (NopOpener) Open(string) error { return nil }

// BrowserOpener starts the platform browser command and does not wait for it.
type BrowserOpener struct{}

// Open implements Opener.
func (BrowserOpener) Open(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
