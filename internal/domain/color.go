package domain

import (
	"strconv"
	"strings"
)

// ContrastColor picks "black" or "white" text for a hex background such as
// "#fff" or "#1e1e1e". Empty or malformed input returns "inherit".
func ContrastColor(bg string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(bg), "#")

	var r, g, b int64
	var err error
	switch len(hex) {
	case 3:
		r, err = parseChannel(strings.Repeat(hex[0:1], 2), err)
		g, err = parseChannel(strings.Repeat(hex[1:2], 2), err)
		b, err = parseChannel(strings.Repeat(hex[2:3], 2), err)
	case 6:
		r, err = parseChannel(hex[0:2], err)
		g, err = parseChannel(hex[2:4], err)
		b, err = parseChannel(hex[4:6], err)
	default:
		return "inherit"
	}
	if err != nil {
		return "inherit"
	}

	// perceived brightness (ITU-R BT.601 weights)
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.5 {
		return "black"
	}
	return "white"
}

func parseChannel(s string, prev error) (int64, error) {
	if prev != nil {
		return 0, prev
	}
	return strconv.ParseInt(s, 16, 64)
}
