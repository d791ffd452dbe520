package backup

import (
	"fmt"

	"vkbackup/pkg/vk"
)

// nameRegistry tracks the file names handed out during one run.
//
// A photo is named "<likes>.jpg"; if that is taken it becomes
// "<likes>-<date>.jpg". Two photos sharing both likes and date still
// collide on the second form, which is accepted.
type nameRegistry map[string]struct{}

func newNameRegistry() nameRegistry {
	return nameRegistry{}
}

// claim returns the name for p and marks it as used
func (r nameRegistry) claim(p vk.Photo) string {
	name := fmt.Sprintf("%d.jpg", p.Likes.Count)
	if _, taken := r[name]; taken {
		name = fmt.Sprintf("%d-%d.jpg", p.Likes.Count, p.Date)
	}
	r[name] = struct{}{}
	return name
}
