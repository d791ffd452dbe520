package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vkbackup/pkg/auth"
	"vkbackup/pkg/ui"
)

var (
	loginGuide bool
	logoutAll  bool
	authDir    string
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage VK and Yandex.Disk tokens",
	Long: `Manage stored VK and Yandex.Disk tokens.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation

and read, without being stored, from:
  - A token directory with .vk and .yd files (--token-dir)
  - VKBACKUP_VK_TOKEN and VKBACKUP_DISK_TOKEN

Never share your tokens or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a pair of tokens",
	Long: `Store a VK token and a Yandex.Disk token under a name (default "default").
Input is hidden when reading from a terminal.`,
	Example: `  # Interactive login
  vkbackup auth login

  # Store a second pair and show where tokens come from
  vkbackup auth login work --guide`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "default"
		if len(args) > 0 {
			name = strings.TrimSpace(args[0])
		}
		manager, err := auth.NewManager("")
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return runLogin(cmd.OutOrStdout(), cmd.InOrStdin(), manager, name)
	},
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored tokens",
	Example: `  vkbackup auth logout work
  vkbackup auth logout --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager("")
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		if logoutAll {
			if err := manager.DeleteAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Green("All stored tokens removed"))
			return nil
		}

		name := "default"
		if len(args) > 0 {
			name = args[0]
		}
		if err := manager.Delete(name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Green(fmt.Sprintf("Tokens for %q removed", name)))
		return nil
	},
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored and detected tokens",
	Long:  `List every known token pair with the tokens masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager(authDir)
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return runList(cmd.OutOrStdout(), manager)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().BoolVar(&loginGuide, "guide", false, "explain how to obtain the tokens first")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "remove every stored pair")
	listCmd.Flags().StringVar(&authDir, "token-dir", "", "also show tokens from this directory")
}

// credentialStore is the part of auth.Manager login and list use
type credentialStore interface {
	Store(creds *auth.Credentials) error
	Retrieve(name string) (*auth.Credentials, error)
	List() ([]*auth.Credentials, error)
}

func runLogin(out io.Writer, in io.Reader, store credentialStore, name string) error {
	reader := bufio.NewReader(in)
	hidden := in == os.Stdin && term.IsTerminal(int(os.Stdin.Fd()))

	if name == "" {
		return fmt.Errorf("name is required")
	}
	if loginGuide {
		auth.ShowTokenGuide(out)
	}

	if existing, _ := store.Retrieve(name); existing != nil {
		fmt.Fprintf(out, "Tokens for %q already exist. Replace them? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Fprintln(out, "Enter your tokens (hidden as you type, leave empty to skip):")

	fmt.Fprint(out, "VK token: ")
	vkToken, err := readSecret(out, reader, hidden)
	if err != nil {
		return fmt.Errorf("failed to read VK token: %w", err)
	}

	fmt.Fprint(out, "Yandex.Disk token: ")
	diskToken, err := readSecret(out, reader, hidden)
	if err != nil {
		return fmt.Errorf("failed to read disk token: %w", err)
	}

	creds := &auth.Credentials{Name: name, VKToken: vkToken, DiskToken: diskToken}
	if err := store.Store(creds); err != nil {
		return err
	}

	fmt.Fprintln(out, ui.Green(fmt.Sprintf("Tokens stored as %q", name)))
	fmt.Fprintf(out, "Use them with: vkbackup backup <owner_id> --account %s\n", name)
	return nil
}

func runList(out io.Writer, store credentialStore) error {
	all, err := store.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No tokens stored. Run 'vkbackup auth login' to add some.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVK TOKEN\tDISK TOKEN\tMODIFIED")
	for _, creds := range all {
		masked := auth.Sanitize(creds)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", masked.Name, orDash(masked.VKToken), orDash(masked.DiskToken),
			masked.LastModified.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// readSecret reads a line, without echo when hidden is set
func readSecret(out io.Writer, reader *bufio.Reader, hidden bool) (string, error) {
	if hidden {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(out)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
