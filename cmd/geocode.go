package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Look up places with geoapify",
}

var geocodeSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Suggest places for a partial address",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e := setup()
		text := strings.Join(args, " ")

		places, err := e.geocoder().Autocomplete(context.Background(), text)
		if err != nil {
			e.logger.Fatal("looking up places", zap.Error(err))
		}
		if len(places) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No places found.")
			return
		}
		renderPlaces(cmd.OutOrStdout(), places)
	},
}

var geocodeReverseCmd = &cobra.Command{
	Use:   "reverse",
	Short: "Find the address at coordinates",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup()
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")

		places, err := e.geocoder().Reverse(context.Background(), lat, lon)
		if err != nil {
			e.logger.Fatal("looking up coordinates", zap.Error(err))
		}
		if len(places) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No places found.")
			return
		}
		renderPlaces(cmd.OutOrStdout(), places)
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	geocodeCmd.AddCommand(geocodeSearchCmd, geocodeReverseCmd)

	geocodeReverseCmd.Flags().Float64("lat", 0, "latitude")
	geocodeReverseCmd.Flags().Float64("lon", 0, "longitude")
	geocodeReverseCmd.MarkFlagRequired("lat")
	geocodeReverseCmd.MarkFlagRequired("lon")
}
