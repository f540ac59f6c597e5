package prayer

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Built-in display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the value custom templates execute against.
type FormatData struct {
	Name      string // e.g. "Asr"
	ShortName string // e.g. "A"
	Time      string // e.g. "15:02" or "3:02 PM"
	Remaining string // e.g. "2h 15m"
	Hours     int
	Minutes   int
	// Approximate is set when the time was clamped or wrapped into the day.
	// Built-in modes then prefix the time with "~".
	Approximate bool
}

// stamp is Time with the approximation marker.
func (v FormatData) stamp() string {
	if v.Approximate {
		return "~" + v.Time
	}
	return v.Time
}

var builtins = map[string]func(v FormatData) string{
	FormatTimeRemaining:      func(v FormatData) string { return v.Remaining },
	FormatNextPrayerTime:     func(v FormatData) string { return v.stamp() },
	FormatNameAndTime:        func(v FormatData) string { return v.Name + " " + v.stamp() },
	FormatNameAndRemaining:   func(v FormatData) string { return v.Name + " " + v.Remaining },
	FormatShortNameAndTime:   func(v FormatData) string { return v.ShortName + " " + v.stamp() },
	FormatShortNameAndRemain: func(v FormatData) string { return v.ShortName + " " + v.Remaining },
	FormatFull:               func(v FormatData) string { return fmt.Sprintf("%s %s (%s)", v.Name, v.stamp(), v.Remaining) },
}

// Formats lists the built-in display modes in help order.
var Formats = []string{
	FormatTimeRemaining, FormatNextPrayerTime, FormatNameAndTime,
	FormatNameAndRemaining, FormatShortNameAndTime, FormatShortNameAndRemain, FormatFull,
}

func isTemplate(mode string) bool {
	return strings.Contains(mode, "{{")
}

// IsValidFormat reports whether mode is a built-in mode or a template that
// parses.
func IsValidFormat(mode string) bool {
	if isTemplate(mode) {
		_, err := template.New("format").Parse(mode)
		return err == nil
	}
	_, ok := builtins[mode]
	return ok
}

// NewFormatData describes p as seen at now. timeFormat is a Go layout,
// "15:04" or "3:04 PM".
func NewFormatData(p Prayer, now time.Time, timeFormat string) FormatData {
	left := max(p.Until(now), 0).Truncate(time.Minute)
	short, ok := ShortNames[p.Name]
	if !ok {
		short = p.Name
	}
	return FormatData{
		Name:        p.Name,
		ShortName:   short,
		Time:        p.Time.Format(timeFormat),
		Remaining:   FormatRemaining(left),
		Hours:       int(left / time.Hour),
		Minutes:     int(left%time.Hour) / int(time.Minute),
		Approximate: p.Approximate,
	}
}

// FormatOutput renders p for a status line. mode is a built-in mode name or
// a Go template over FormatData, e.g. "{{.Name}} in {{.Remaining}}". Unknown
// modes fall back to name-and-time; template failures render as
// "template-err: ...".
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	v := NewFormatData(p, now, timeFormat)
	if isTemplate(mode) {
		return execTemplate(mode, v)
	}
	if render, ok := builtins[mode]; ok {
		return render(v)
	}
	return builtins[FormatNameAndTime](v)
}

func execTemplate(text string, v FormatData) string {
	t, err := template.New("format").Parse(text)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, v); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return sb.String()
}
