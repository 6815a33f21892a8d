package menu

import (
	"strconv"

	"github.com/tanq16/tunequeue/internal/i18n"
	"github.com/tanq16/tunequeue/internal/utils"
)

func (a *App) settings() error {
	option, err := a.chooseSettings()
	if err != nil {
		return err
	}
	switch option {
	case SettingsLanguage:
		return a.languageMenu()
	case SettingsDirectory:
		return a.setDirectory()
	case SettingsColoring:
		a.toggleColoring()
	case SettingsBack:
		a.say("return_to_menu")
	default:
		panic("unhandled settings option " + strconv.Itoa(int(option)))
	}
	return nil
}

func (a *App) chooseSettings() (SettingsOption, error) {
	last := strconv.Itoa(len(settingsOptions))
	for {
		a.sayRaw("")
		a.say("settings_title")
		for _, option := range settingsOptions {
			a.say(option.Key())
		}
		input, err := a.ask("settings_enter_choice", "1", last)
		if err != nil {
			return 0, err
		}
		if n, ok := parseChoice(input, len(settingsOptions)); ok {
			return settingsOptions[n-1], nil
		}
		a.say("invalid_choice", "1", last)
	}
}

// languageMenu lists the languages plus a back entry.
func (a *App) languageMenu() error {
	languages := i18n.All()
	back := len(languages) + 1
	last := strconv.Itoa(back)
	for {
		a.sayRaw("")
		a.say("language_select")
		for i, lang := range languages {
			a.sayRaw(strconv.Itoa(i+1) + ". " + a.Translator.Get(lang.DisplayKey()))
		}
		a.sayRaw(last + ". " + a.Translator.Get("language_back"))
		input, err := a.ask("language_enter_choice", "1", last)
		if err != nil {
			return err
		}
		n, ok := parseChoice(input, back)
		if !ok {
			a.say("invalid_choice", "1", last)
			continue
		}
		if n == back {
			a.say("return_to_menu")
			return nil
		}
		selected := languages[n-1]
		if err := a.Config.SetLanguage(selected); err != nil {
			a.say("settings_save_failed", err.Error())
		}
		a.Translator.SwitchLanguage(selected)
		a.say(selected.ConfirmKey())
		return nil
	}
}

// setDirectory asks for a path, creates it and persists it.
func (a *App) setDirectory() error {
	input, err := a.ask("enter_directory")
	if err != nil {
		return err
	}
	if input == "" {
		a.say("no_dir_selected")
		return nil
	}
	dir, err := utils.ExpandPath(input)
	if err == nil {
		err = utils.EnsureDir(dir)
	}
	if err != nil {
		a.say("dir_invalid", input, err.Error())
		return nil
	}
	if err := a.Config.SetDownloadDir(dir); err != nil {
		a.say("settings_save_failed", err.Error())
	}
	a.say("dir_set", dir)
	return nil
}

func (a *App) toggleColoring() {
	enabled := !a.Config.Coloring()
	if err := a.Config.SetColoring(enabled); err != nil {
		a.say("settings_save_failed", err.Error())
	}
	a.Translator.SetColoring(enabled)
	state := "coloring_off"
	if enabled {
		state = "coloring_on"
	}
	a.say("coloring_toggled", a.Translator.Text(state))
}
