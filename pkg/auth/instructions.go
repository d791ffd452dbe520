package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowTokenGuide explains where the two tokens come from
func ShowTokenGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, "GETTING ACCESS TOKENS")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "VK token (needs the \"photos\" scope):")
	fmt.Fprintln(w, "   1. Create a standalone app at https://dev.vk.com")
	fmt.Fprintln(w, "   2. Open https://oauth.vk.com/authorize?client_id=<app id>&scope=photos&response_type=token")
	fmt.Fprintln(w, "   3. Copy the access_token parameter from the redirect URL")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Yandex.Disk token:")
	fmt.Fprintln(w, "   1. Open https://yandex.ru/dev/disk/poligon/")
	fmt.Fprintln(w, "   2. Press \"Get OAuth token\" and copy it")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Alternatives to storing them:")
	fmt.Fprintf(w, "   - export %s and %s\n", envVKToken, envDiskToken)
	fmt.Fprintf(w, "   - put them in %s and %s inside a directory passed as --token-dir\n", VKTokenFile, DiskTokenFile)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Both tokens grant access to your accounts. Never share them.")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
}
