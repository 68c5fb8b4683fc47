package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/models"
	"github.com/benmeehan/fleetops/internal/tracking"
)

func (a *app) table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func newCompaniesCmd(a *app) *cobra.Command {
	var loginFlow bool

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			var env api.Envelope[[]models.Company]
			if loginFlow {
				env = a.client.GetAuthCompanies(cmd.Context())
			} else {
				env = a.client.GetCompanies(cmd.Context(), filtersFromFlags(cmd, pageFlags))
			}
			companies, err := unwrap(env)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(companies)
			}

			w := a.table("ID", "NAME", "CNPJ", "ACTIVE")
			for _, c := range companies {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", c.ID, c.Name, c.CNPJ, c.Active)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&loginFlow, "login", false, "list the companies available to the current login instead")
	addQueryFlags(cmd, pageFlags)
	return cmd
}

func newDriversCmd(a *app) *cobra.Command {
	statusFlags := []queryFlag{{"status", "status", "driver status"}}

	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "List drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			drivers, err := unwrap(a.client.GetDrivers(cmd.Context(), filtersFromFlags(cmd, statusFlags, pageFlags)))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(drivers)
			}

			w := a.table("ID", "NAME", "PHONE", "VEHICLE", "STATUS")
			for _, d := range drivers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Phone, d.VehicleID, d.Status)
			}
			return w.Flush()
		},
	}
	addQueryFlags(cmd, statusFlags, pageFlags)

	var staleAfter time.Duration
	var threshold float64
	locations := &cobra.Command{
		Use:   "locations",
		Short: "Show the latest position and movement status of every driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := unwrap(a.client.GetCurrentLocations(cmd.Context()))
			if err != nil {
				return err
			}
			statuses := tracking.NewClassifier(staleAfter, threshold).Annotate(current, time.Now())
			if a.jsonOutput {
				return a.printJSON(statuses)
			}
			return a.printDriverStatuses(statuses)
		},
	}
	locations.Flags().DurationVar(&staleAfter, "stale-after", tracking.DefaultStaleAfter, "silence after which a driver is offline")
	locations.Flags().Float64Var(&threshold, "moving-threshold", tracking.DefaultMovingThresholdKmh, "speed in km/h above which a driver is moving")

	history := &cobra.Command{
		Use:   "history <driver-id>",
		Short: "Show the location history of a driver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := unwrap(a.client.GetDriverHistory(cmd.Context(), args[0], filtersFromFlags(cmd, periodFlags)))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(points)
			}

			w := a.table("TIME", "LATITUDE", "LONGITUDE", "SPEED")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.1f\n", p.Timestamp.Format(time.RFC3339), p.Latitude, p.Longitude, tracking.ClampSpeed(p.Speed))
			}
			return w.Flush()
		},
	}
	addQueryFlags(history, periodFlags)

	cmd.AddCommand(locations, history)
	return cmd
}

func (a *app) printDriverStatuses(statuses []tracking.DriverStatus) error {
	counts := tracking.Counts(statuses)
	fmt.Fprintf(a.out, "moving: %d  idle: %d  offline: %d\n",
		counts[tracking.StatusMoving], counts[tracking.StatusIdle], counts[tracking.StatusOffline])

	w := a.table("DRIVER", "MOVEMENT", "SPEED", "LATITUDE", "LONGITUDE", "LAST UPDATE")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.6f\t%.6f\t%s\n",
			s.DriverName, s.Movement, s.Speed, s.Latitude, s.Longitude, s.LastUpdate)
	}
	return w.Flush()
}

func newDeliveriesCmd(a *app) *cobra.Command {
	listFlags := []queryFlag{
		{"status", "status", "delivery status"},
		{"driver-id", "driverId", "only deliveries of this driver"},
	}

	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "List deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			deliveries, err := unwrap(a.client.GetDeliveries(cmd.Context(), filtersFromFlags(cmd, listFlags, periodFlags, pageFlags)))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(deliveries)
			}

			w := a.table("ID", "NF", "CLIENT", "DRIVER", "STATUS", "RECEIPT")
			for _, d := range deliveries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", d.ID, d.NFNumber, d.ClientName, d.DriverID, d.Status, d.HasReceipt)
			}
			return w.Flush()
		},
	}
	addQueryFlags(cmd, listFlags, periodFlags, pageFlags)

	get := &cobra.Command{
		Use:   "get <delivery-id>",
		Short: "Show one delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delivery, err := unwrap(a.client.GetDelivery(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			return a.printJSON(delivery)
		},
	}

	var driverID, vehicleID string
	importCmd := &cobra.Command{
		Use:   "import <access-key>",
		Short: "Create a delivery from an NF-e access key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delivery, err := unwrap(a.client.CreateDeliveryFromSefaz(cmd.Context(), models.SefazDeliveryRequest{
				AccessKey: args[0],
				DriverID:  driverID,
				VehicleID: vehicleID,
			}))
			if err != nil {
				return err
			}
			return a.printJSON(delivery)
		},
	}
	importCmd.Flags().StringVar(&driverID, "driver-id", "", "assign the delivery to this driver")
	importCmd.Flags().StringVar(&vehicleID, "vehicle-id", "", "assign the delivery to this vehicle")

	var notes string
	setStatus := &cobra.Command{
		Use:   "set-status <delivery-id> <status>",
		Short: "Change the status of a delivery",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delivery, err := unwrap(a.client.UpdateDeliveryStatus(cmd.Context(), args[0], models.DeliveryStatusUpdate{
				Status: strings.ToUpper(args[1]),
				Notes:  notes,
			}))
			if err != nil {
				return err
			}
			return a.printJSON(delivery)
		},
	}
	setStatus.Flags().StringVar(&notes, "notes", "", "free text stored with the change")

	cmd.AddCommand(get, importCmd, setStatus)
	return cmd
}

func newReceiptsCmd(a *app) *cobra.Command {
	listFlags := []queryFlag{{"status", "status", "receipt status"}}

	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List proof-of-delivery receipts",
		RunE: func(cmd *cobra.Command, args []string) error {
			receipts, err := unwrap(a.client.GetReceipts(cmd.Context(), filtersFromFlags(cmd, listFlags, periodFlags, pageFlags)))
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(receipts)
			}

			w := a.table("ID", "DELIVERY", "STATUS", "VALIDATED", "IMAGE")
			for _, r := range receipts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", r.ID, r.DeliveryID, r.Status, r.Validated, r.ImageURL)
			}
			return w.Flush()
		},
	}
	addQueryFlags(cmd, listFlags, periodFlags, pageFlags)

	var runOCR bool
	upload := &cobra.Command{
		Use:   "upload <delivery-id> <image>",
		Short: "Upload a receipt image for a delivery",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := unwrap(a.client.UploadReceipt(cmd.Context(), args[0], args[1]))
			if err != nil {
				return err
			}
			if runOCR {
				if receipt, err = unwrap(a.client.ProcessReceiptOCR(cmd.Context(), receipt.ID)); err != nil {
					return err
				}
			}
			return a.printJSON(receipt)
		},
	}
	upload.Flags().BoolVar(&runOCR, "ocr", false, "run OCR on the uploaded receipt")

	var output string
	download := &cobra.Command{
		Use:   "download <image-url>",
		Short: "Download a protected receipt image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = filepath.Base(args[0])
			}
			n, err := a.client.DownloadProtected(cmd.Context(), args[0], output)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, output)
			return nil
		},
	}
	download.Flags().StringVarP(&output, "output", "o", "", "destination file (defaults to the URL base name)")

	cmd.AddCommand(upload, download)
	return cmd
}

func newReportsCmd(a *app) *cobra.Command {
	reports := map[string]func(*cobra.Command, *api.Filters) (any, error){
		"deliveries": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetDeliveriesReport(cmd.Context(), f))
		},
		"drivers": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetDriverPerformanceReport(cmd.Context(), f))
		},
		"clients": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetClientVolumeReport(cmd.Context(), f))
		},
		"occurrences": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetOccurrencesReport(cmd.Context(), f))
		},
		"receipts": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetReceiptsReport(cmd.Context(), f))
		},
		"kpis": func(cmd *cobra.Command, f *api.Filters) (any, error) {
			return unwrap(a.client.GetDashboardKPIs(cmd.Context(), f))
		},
	}

	cmd := &cobra.Command{
		Use:       "reports <deliveries|drivers|clients|occurrences|receipts|kpis>",
		Short:     "Fetch a report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"deliveries", "drivers", "clients", "occurrences", "receipts", "kpis"},
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := reports[args[0]](cmd, filtersFromFlags(cmd, periodFlags))
			if err != nil {
				return err
			}
			return a.printJSON(report)
		},
	}
	addQueryFlags(cmd, periodFlags)
	return cmd
}
