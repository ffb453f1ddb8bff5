package main

import (
	"testing"

	"evodash/pkg/prefs"
)

func TestThemeForPreference(t *testing.T) {
	if themeFor(prefs.ThemeMono) != MonoTheme() {
		t.Error("mono preference must select the mono theme")
	}
	if themeFor(prefs.ThemeDefault) != DefaultTheme() {
		t.Error("default preference must select the default theme")
	}
	if themeFor("unknown") != DefaultTheme() {
		t.Error("unknown preference must fall back to the default theme")
	}
}
