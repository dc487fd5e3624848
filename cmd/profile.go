package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/logger"
	"github.com/spigell/tutorhub/internal/marketplace"
	"github.com/spigell/tutorhub/internal/validation"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your profile",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		e.requireRole("")

		user, err := e.api.CurrentUser(context.Background())
		if err != nil {
			e.fail("getting the profile", err)
		}
		renderProfile(cmd.OutOrStdout(), user)
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields. Only the given flags are changed",
	Run: func(cmd *cobra.Command, _ []string) {
		updateProfile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	profileUpdateCmd.Flags().String("name", "", "display name")
	profileUpdateCmd.Flags().String("phone", "", "phone number in E.164 format, e.g. +447700900123")
	profileUpdateCmd.Flags().String("location", "", "town or address")
	profileUpdateCmd.Flags().Bool("pick-location", false, "look the location up with geoapify and choose a match")
	profileUpdateCmd.Flags().String("bio", "", "about you")
	profileUpdateCmd.Flags().Float64("hourly-rate", 0, "hourly rate (tutors)")
	profileUpdateCmd.Flags().StringSlice("subjects", nil, "subjects you teach (tutors)")
}

func updateProfile(cmd *cobra.Command) {
	e := setup()
	current := e.requireRole("")
	flags := cmd.Flags()

	update := &marketplace.ProfileUpdate{}
	update.Name, _ = flags.GetString("name")
	update.Phone, _ = flags.GetString("phone")
	update.Location, _ = flags.GetString("location")
	update.Bio, _ = flags.GetString("bio")
	update.Subjects, _ = flags.GetStringSlice("subjects")
	if flags.Changed("hourly-rate") {
		rate, _ := flags.GetFloat64("hourly-rate")
		update.HourlyRate = &rate
	}

	if pick, _ := flags.GetBool("pick-location"); pick {
		update.Location = pickLocation(e, update.Location)
	}

	user, err := e.api.UpdateProfile(context.Background(), update)
	if err != nil {
		var invalid validation.Errors
		if errors.As(err, &invalid) {
			e.logger.Fatal("invalid profile", zap.Error(err))
		}
		e.fail("updating the profile", err)
	}

	updated := sessionUser(user)
	if updated.Email == "" {
		updated.Email = current.Email
	}
	if updated.Role == "" {
		updated.Role = current.Role
	}
	if err := e.session.SetUser(updated); err != nil {
		e.logger.Warn("updating the session", zap.Error(err))
	}

	logger.WithUser(e.logger, updated.Email).Info("profile updated")
	renderProfile(cmd.OutOrStdout(), user)
}

// pickLocation lets the user choose one of the places matching text.
func pickLocation(e *env, text string) string {
	text = ask(e, "Location", text, false)

	places, err := e.geocoder().Autocomplete(context.Background(), text)
	if err != nil {
		e.logger.Fatal("looking up the location", zap.Error(err))
	}
	if len(places) == 0 {
		e.logger.Warn("no places found, keeping the text as is", zap.String("location", text))
		return text
	}

	labels := make([]string, 0, len(places))
	for _, p := range places {
		labels = append(labels, p.Label())
	}

	prompt := promptui.Select{
		Label: "Choose a location and press ENTER",
		Items: labels,
	}
	i, _, err := prompt.Run()
	if err != nil {
		e.logger.Fatal("exiting", zap.Error(err))
	}
	return labels[i]
}
