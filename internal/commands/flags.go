package commands

import (
	"strconv"
	"strings"
)

// optString is a string flag that records whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

// categoryFlag holds a category ID, or nil for "none".
type categoryFlag struct {
	id  *int
	set bool
}

func (f *categoryFlag) String() string {
	if f.id == nil {
		return ""
	}
	return strconv.Itoa(*f.id)
}

func (f *categoryFlag) Set(s string) error {
	f.set = true
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		f.id = nil
		return nil
	}
	id, err := ParseID("category", strings.TrimSpace(s))
	if err != nil {
		return err
	}
	f.id = &id
	return nil
}
