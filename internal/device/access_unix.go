// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package device

import (
	"fmt"
	"os"
	"os/user"
	"slices"
	"strconv"
	"syscall"
)

// probeAccess judges port access from stat metadata alone. On most Linux
// distributions the device node is root:dialout mode 0660, so membership in
// the owning group is what decides access. The port is never opened.
func probeAccess(path string) Access {
	info, err := os.Stat(path)
	if err != nil {
		return Access{Hint: fmt.Sprintf("stat %s: %v", path, err)}
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		// No ownership information available; judge from world bits only.
		return Access{Writable: info.Mode().Perm()&0o006 == 0o006}
	}

	mode := info.Mode().Perm()
	group := groupName(st.Gid)

	if mode&0o006 == 0o006 {
		return Access{Writable: true, Group: group}
	}

	cur, err := user.Current()
	if err != nil {
		return Access{Group: group, Hint: "could not determine the current user; check the port permissions manually"}
	}
	if cur.Uid == "0" {
		return Access{Writable: true, Group: group}
	}
	if cur.Uid == strconv.FormatUint(uint64(st.Uid), 10) && mode&0o600 == 0o600 {
		return Access{Writable: true, Group: group}
	}
	if mode&0o060 == 0o060 && userInGroup(cur, st.Gid) {
		return Access{Writable: true, Group: group}
	}

	hint := "check the port permissions"
	if group != "" {
		hint = fmt.Sprintf("run 'sudo usermod -aG %s $USER' and log in again", group)
	}
	return Access{Group: group, Hint: hint}
}

func groupName(gid uint32) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return ""
	}
	return g.Name
}

func userInGroup(u *user.User, gid uint32) bool {
	ids, err := u.GroupIds()
	if err != nil {
		return false
	}
	return slices.Contains(ids, strconv.FormatUint(uint64(gid), 10))
}
