package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lukman83/martdash/internal/app"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
	"github.com/lukman83/martdash/internal/rider"
	"github.com/lukman83/martdash/internal/ui"
	"github.com/spf13/cobra"
)

var riderCmd = &cobra.Command{
	Use:   "rider",
	Short: "Rider delivery workflow",
	Long:  "Log a delivery rider in with an OTP, view the assigned trip and complete cash deliveries.",
}

var riderLoginCmd = &cobra.Command{
	Use:   "login [mobile]",
	Short: "Send an OTP and store the session once verified",
	Args:  cobra.ExactArgs(1),
	RunE:  runRiderLogin,
}

var riderTripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Show the assigned trip",
	Args:  cobra.NoArgs,
	RunE:  runRiderTrip,
}

var riderDeliverCmd = &cobra.Command{
	Use:   "deliver [shipment-id]",
	Short: "Complete one cash delivery",
	Args:  cobra.ExactArgs(1),
	RunE:  runRiderDeliver,
}

var riderDeliverAllCmd = &cobra.Command{
	Use:   "deliver-all",
	Short: "Complete every pending shipment whose address matches",
	Args:  cobra.NoArgs,
	RunE:  runRiderDeliverAll,
}

var riderAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List stored rider sessions",
	Args:  cobra.NoArgs,
	RunE:  runRiderAccounts,
}

var riderLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runRiderLogout,
}

func init() {
	riderCmd.PersistentFlags().String("mobile", "", "Rider mobile number (default: the only stored account)")
	riderCmd.PersistentFlags().String("format", "table", "Output format: table, json")
	riderTripCmd.Flags().Duration("watch", 0, "Re-fetch the trip at this interval until interrupted (e.g. 30s)")
	riderDeliverAllCmd.Flags().String("address", "", "Deliver shipments whose address contains this text (case-insensitive)")
	_ = riderDeliverAllCmd.MarkFlagRequired("address")

	riderCmd.AddCommand(riderLoginCmd, riderTripCmd, riderDeliverCmd, riderDeliverAllCmd, riderAccountsCmd, riderLogoutCmd)
	rootCmd.AddCommand(riderCmd)
}

func runRiderLogin(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	st, err := a.StartLogin(ctx, args[0])
	if err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "OTP sent to %s. Enter code: ", args[0])

	otp, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && otp == "" {
		return fmt.Errorf("read otp: %w", err)
	}
	if _, err := a.FinishLogin(ctx, st, strings.TrimSpace(otp)); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Logged in as %s.\n", args[0])
	return nil
}

func runRiderTrip(cmd *cobra.Command, args []string) error {
	a, mobile, err := riderApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if every, _ := cmd.Flags().GetDuration("watch"); every > 0 {
		return a.WatchTrip(cmd.Context(), mobile, every, func(trip models.Trip, err error) {
			fmt.Fprintf(os.Stdout, "--- %s\n", time.Now().Format(time.TimeOnly))
			showTrip(cmd, trip, err)
		})
	}

	trip, err := a.Trip(cmd.Context(), mobile)
	if err != nil && !errors.Is(err, rider.ErrNoTrip) {
		return err
	}
	return showTrip(cmd, trip, err)
}

func showTrip(cmd *cobra.Command, trip models.Trip, err error) error {
	if errors.Is(err, rider.ErrNoTrip) {
		fmt.Fprintln(os.Stdout, "No trip assigned.")
		return nil
	}
	if jsonOutput(cmd) {
		return writeJSON(trip)
	}
	printTrip(trip)
	return nil
}

func runRiderDeliver(cmd *cobra.Command, args []string) error {
	a, mobile, err := riderApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Deliver(cmd.Context(), mobile, args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON([]rider.Result{res})
	}
	printResults([]rider.Result{res})
	if !res.OK() {
		return fmt.Errorf("shipment %s: %s", res.ShipmentID, res.Outcome)
	}
	return nil
}

func runRiderDeliverAll(cmd *cobra.Command, args []string) error {
	address, _ := cmd.Flags().GetString("address")
	a, mobile, err := riderApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Delivering shipments matching '%s'...", address))
	ctx := platform.WithProgress(cmd.Context(), spin.Update)
	results, err := a.DeliverAll(ctx, mobile, address)
	spin.Stop()
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(results)
	}
	printResults(results)
	return nil
}

func runRiderAccounts(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.ListAccounts(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No stored accounts.")
		return nil
	}
	for _, s := range list {
		fmt.Fprintln(os.Stdout, s.MobileNumber)
	}
	return nil
}

func runRiderLogout(cmd *cobra.Command, args []string) error {
	a, mobile, err := riderAccountApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Logout(cmd.Context(), mobile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Logged out %s.\n", mobile)
	return nil
}

// riderApp builds the app and resolves which rider the command is for.
func riderApp(cmd *cobra.Command) (*app.App, string, error) {
	a, mobile, err := riderAccountApp(cmd)
	if err != nil {
		return nil, "", err
	}
	if a.Rider == nil {
		a.Close()
		return nil, "", app.ErrRiderNotConfigured
	}
	return a, mobile, nil
}

func riderAccountApp(cmd *cobra.Command) (*app.App, string, error) {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return nil, "", err
	}
	mobile, _ := cmd.Flags().GetString("mobile")
	if mobile != "" {
		return a, mobile, nil
	}

	list, err := a.ListAccounts(cmd.Context())
	if err != nil {
		a.Close()
		return nil, "", err
	}
	if len(list) != 1 {
		a.Close()
		return nil, "", fmt.Errorf("--mobile is required (%d stored accounts)", len(list))
	}
	return a, list[0].MobileNumber, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	f, _ := cmd.Flags().GetString("format")
	return f == "json"
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
