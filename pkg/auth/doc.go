// Package auth stores the VK and Yandex.Disk tokens a backup needs.
//
// A Manager consults its stores in order: the system keyring, an AES-GCM
// encrypted file under the user config directory, an optional token
// directory with .vk and .yd files, and the VKBACKUP_VK_TOKEN and
// VKBACKUP_DISK_TOKEN environment variables. The last two are read-only.
package auth
