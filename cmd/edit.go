package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vitgroww/roomie/internal/roommate"
	"github.com/vitgroww/roomie/internal/validator"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your roommate preferences and save them to the config file",
	Run: func(_ *cobra.Command, _ []string) {
		edit()
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func edit() {
	logger, config := setup("edit")

	preferences, err := promptPreferences(config.Preferences)
	if err != nil {
		logger.Fatal("editing preferences", zap.Error(err))
	}

	if err := validator.New().Validate(&preferences); err != nil {
		logger.Fatal("preferences are incomplete", zap.Error(err))
	}

	settings, err := preferencesToSettings(preferences)
	if err != nil {
		logger.Fatal("encoding preferences", zap.Error(err))
	}
	viper.Set("preferences", settings)

	path := viper.ConfigFileUsed()
	if path == "" {
		path = app + ".yaml"
		err = viper.SafeWriteConfigAs(path)
	} else {
		err = viper.WriteConfig()
	}
	if err != nil {
		logger.Fatal("saving config", zap.String("path", path), zap.Error(err))
	}

	logger.Info("preferences saved", zap.String("path", path))
	fmt.Println(preferenceSummary(preferences))
}

func promptPreferences(current roommate.PreferenceSet) (roommate.PreferenceSet, error) {
	p := current
	var err error

	if p.PreferredBlock, err = selectValue("Preferred block", roommate.AllBlocks(), p.PreferredBlock); err != nil {
		return current, err
	}
	if p.MessPreference, err = selectValue("Mess", roommate.AllMesses(), p.MessPreference); err != nil {
		return current, err
	}
	if p.RoomType, err = selectValue("Room type", roommate.AllRoomTypes(), p.RoomType); err != nil {
		return current, err
	}
	if p.ACPreference, err = selectValue("AC", roommate.AllACs(), p.ACPreference); err != nil {
		return current, err
	}
	if p.SleepTime, err = selectValue("Sleep time", roommate.AllSchedules(), p.SleepTime); err != nil {
		return current, err
	}
	if p.WakeTime, err = selectValue("Wake time", roommate.AllSchedules(), p.WakeTime); err != nil {
		return current, err
	}
	if p.StudyStyle, err = selectValue("Study style", roommate.AllStudyStyles(), p.StudyStyle); err != nil {
		return current, err
	}
	if p.Cleanliness, err = selectValue("Cleanliness", roommate.AllCleanliness(), p.Cleanliness); err != nil {
		return current, err
	}
	if p.SocialLevel, err = selectValue("Social style", roommate.AllSocialLevels(), p.SocialLevel); err != nil {
		return current, err
	}

	interestsPrompt := promptui.Prompt{
		Label:     "Interests (comma separated)",
		Default:   strings.Join(current.Interests, ", "),
		AllowEdit: true,
	}
	raw, err := interestsPrompt.Run()
	if err != nil {
		return current, err
	}
	p.Interests = roommate.NormalizeInterests(strings.Split(raw, ","))

	return p, nil
}

func selectValue[T ~string](label string, values []T, current T) (T, error) {
	items := make([]string, 0, len(values))
	pos := 0
	for i, v := range values {
		items = append(items, string(v))
		if v == current {
			pos = i
		}
	}

	valuePrompt := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: pos,
	}
	idx, _, err := valuePrompt.Run()
	if err != nil {
		return current, err
	}
	return values[idx], nil
}

// preferencesToSettings converts preferences into the map written under the
// preferences key, using the same keys the config is decoded with.
func preferencesToSettings(p roommate.PreferenceSet) (map[string]any, error) {
	settings := map[string]any{}
	if err := mapstructure.Decode(p, &settings); err != nil {
		return nil, err
	}
	for key, value := range settings {
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
			settings[key] = rv.String()
		}
	}
	return settings, nil
}

func preferenceSummary(p roommate.PreferenceSet) string {
	return fmt.Sprintf("block %s, %s mess, %s room, %s, sleeps %s, wakes %s, studies %s, cleanliness %s, %s, interests: %s",
		p.PreferredBlock, p.MessPreference, p.RoomType, p.ACPreference,
		p.SleepTime, p.WakeTime, p.StudyStyle, p.Cleanliness, p.SocialLevel,
		strings.Join(p.Interests, ", "))
}
