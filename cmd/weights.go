package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitgroww/roomie/internal/roommate"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Print the scoring table",
	Run: func(_ *cobra.Command, _ []string) {
		printWeights(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}

func printWeights(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTRIBUTE\tPOINTS\tREASON")
	for _, a := range roommate.Weights() {
		points := fmt.Sprint(a.Weight)
		if a.Name == roommate.InterestsAttribute {
			points = fmt.Sprintf("%d per tag, max %d", roommate.InterestPointsPerTag, roommate.InterestPointsCap)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, points, a.Reason)
	}
	fmt.Fprintf(tw, "total\t%d\t\n", roommate.MaxPoints())
	tw.Flush()
}
