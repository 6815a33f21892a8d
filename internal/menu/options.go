package menu

import (
	"fmt"
	"strconv"
	"strings"
)

type MainOption int

const (
	AddURL MainOption = iota + 1
	ListQueue
	Download
	ViewHistory
	ClearQueue
	Settings
	Exit
)

var mainOptions = []MainOption{AddURL, ListQueue, Download, ViewHistory, ClearQueue, Settings, Exit}

// Key is the catalog key of the option label.
func (o MainOption) Key() string {
	switch o {
	case AddURL:
		return "menu_add_url"
	case ListQueue:
		return "menu_list_queue"
	case Download:
		return "menu_start_downloads"
	case ViewHistory:
		return "menu_view_history"
	case ClearQueue:
		return "menu_clear_queue"
	case Settings:
		return "menu_settings"
	case Exit:
		return "menu_exit"
	default:
		panic(fmt.Sprintf("unknown main menu option %d", int(o)))
	}
}

type SettingsOption int

const (
	SettingsLanguage SettingsOption = iota + 1
	SettingsDirectory
	SettingsColoring
	SettingsBack
)

var settingsOptions = []SettingsOption{SettingsLanguage, SettingsDirectory, SettingsColoring, SettingsBack}

func (o SettingsOption) Key() string {
	switch o {
	case SettingsLanguage:
		return "settings_language"
	case SettingsDirectory:
		return "settings_set_directory"
	case SettingsColoring:
		return "settings_coloring"
	case SettingsBack:
		return "settings_back"
	default:
		panic(fmt.Sprintf("unknown settings option %d", int(o)))
	}
}

// parseChoice accepts a 1-based menu number no larger than max.
func parseChoice(input string, max int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
