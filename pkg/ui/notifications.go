package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// commandSender runs a platform command built from title and message
type commandSender struct {
	build func(title, message string) *exec.Cmd
}

func (s *commandSender) Send(title, message string) error {
	return s.build(title, message).Run()
}

func linuxCommand(title, message string) *exec.Cmd {
	return exec.Command("notify-send", "--app-name=vkbackup", title, message)
}

func macOSCommand(title, message string) *exec.Cmd {
	quote := func(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, quote(message), quote(title))
	return exec.Command("osascript", "-e", script)
}

func windowsCommand(title, message string) *exec.Cmd {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$template = [Windows.UI.Notifications.ToastTemplateType]::ToastText02
		$xml = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent($template)
		$text = $xml.GetElementsByTagName("text")
		$text.Item(0).AppendChild($xml.CreateTextNode('%s')) | Out-Null
		$text.Item(1).AppendChild($xml.CreateTextNode('%s')) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($xml)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("vkbackup").Show($toast)
	`, strings.ReplaceAll(title, "'", "''"), strings.ReplaceAll(message, "'", "''"))
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

// Notifier sends end-of-run desktop notifications
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks the sender for the current platform
func NewNotifier() *Notifier {
	return NewNotifierFor(runtime.GOOS)
}

// NewNotifierFor picks the sender for goos; unsupported platforms get none
func NewNotifierFor(goos string) *Notifier {
	switch goos {
	case "linux":
		return &Notifier{sender: &commandSender{build: linuxCommand}}
	case "darwin":
		return &Notifier{sender: &commandSender{build: macOSCommand}}
	case "windows":
		return &Notifier{sender: &commandSender{build: windowsCommand}}
	default:
		return &Notifier{}
	}
}

// Enabled reports whether the platform can show notifications
func (n *Notifier) Enabled() bool {
	return n.sender != nil
}

// Notify shows a notification; delivery failures are ignored
func (n *Notifier) Notify(title, message string) {
	if n.sender != nil {
		_ = n.sender.Send(title, message)
	}
}
