package cmd

import (
	"fmt"
	"time"

	"comptesupport/config"
	"comptesupport/dispatch"
	"comptesupport/mailer"
	"comptesupport/partner"
	"comptesupport/progress"
	"comptesupport/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sendRunID  string
	sendDryRun bool
	sendResend bool
	sendDBPath string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mail routed reports to their partners",
	Long: `Send every file of a journaled routing run to its partner addresses.

Subject and body are Go templates with {{.Partner}}, {{.File}} and {{.Emails}}.
mail.cc and mail.bcc are added to every message. Files already sent in the run are
skipped unless --resend is given.

In --dry-run mode messages are rendered and listed but nothing is mailed.`,
	Example: `
  # Preview the latest routing run
  comptesupport send --dry-run

  # Send a specific routing run
  comptesupport send --run 3f5c0c1e-6f7b-4a52-9d59-0e5b8a1c2d3e
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if !sendDryRun && !cfg.Mail.Configured() {
			return fmt.Errorf("mail.host is not configured (use --dry-run to preview)")
		}

		store, err := storage.OpenSQLite(stringFlagOrConfig(cmd, "db", sendDBPath, cfg.Storage.DB))
		if err != nil {
			return err
		}
		defer store.Close()

		runID := sendRunID
		if runID == "" {
			latest, ok, err := store.LatestRunID(storage.RunKindRoute)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no routing run found; run \"comptesupport route\" first")
			}
			runID = latest
		}

		stored, err := store.ListRoutes(runID)
		if err != nil {
			return err
		}
		pending := make([]storage.StoredRoute, 0, len(stored))
		for _, route := range stored {
			if route.Sent() && !sendResend {
				continue
			}
			pending = append(pending, route)
		}
		if len(pending) == 0 {
			fmt.Printf("Nothing to send for run %s.\n", runID)
			return nil
		}

		var transport dispatch.Mailer
		if cfg.Mail.Configured() {
			transport = mailer.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
		}
		service, err := dispatch.NewService(transport, dispatch.Options{
			Subject:  cfg.Mail.Subject,
			Body:     cfg.Mail.Body,
			CC:       cfg.Mail.CC,
			BCC:      cfg.Mail.BCC,
			FromName: cfg.Mail.FromName,
			DryRun:   sendDryRun,
		}, progress.Multi(progress.Writer(cmd.OutOrStdout()), progress.Logger(logger)), logger)
		if err != nil {
			return err
		}

		journal, err := store.CreateRun(storage.RunKindSend, runID)
		if err != nil {
			return err
		}

		ctx, stop := interruptContext(cmd)
		defer stop()

		routes := make([]partner.Route, 0, len(pending))
		for _, route := range pending {
			routes = append(routes, route.Route)
		}
		summary, sendErr := service.Send(ctx, routes)

		if !sendDryRun {
			for i, outcome := range summary.Outcomes {
				if err := store.MarkRouteSent(pending[i].ID, time.Now(), outcome.Err); err != nil {
					logger.Error("journal send outcome", zap.String("file", outcome.Route.FileName), zap.Error(err))
				}
			}
		}
		detail := fmt.Sprintf("routing run %s: %d sent, %d failed", runID, summary.Sent(), summary.Failed())
		if err := store.FinishRun(journal.ID, runStatus(sendErr), detail); err != nil {
			logger.Error("journal run status", zap.String("run", journal.ID), zap.Error(err))
		}
		if sendErr != nil {
			return sendErr
		}

		if sendDryRun {
			fmt.Println("Send dry-run mode: messages rendered, nothing mailed.")
			for _, outcome := range summary.Outcomes {
				fmt.Printf("Dry-run %s: to=%v cc=%v subject=%q\n",
					outcome.Route.FileName,
					outcome.Message.To,
					outcome.Message.CC,
					outcome.Message.Subject,
				)
			}
		}
		for _, outcome := range summary.Outcomes {
			if outcome.Err != nil {
				fmt.Printf("FAILED %s: %v\n", outcome.Route.FileName, outcome.Err)
			}
		}
		fmt.Printf("Send completed. Routing run: %s, Messages: %d, Sent: %d, Failed: %d\n",
			runID,
			len(summary.Outcomes),
			summary.Sent(),
			summary.Failed(),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendRunID, "run", "", "Routing run ID (default: the latest routing run)")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Render messages without mailing them")
	sendCmd.Flags().BoolVar(&sendResend, "resend", false, "Also send files already sent in this run")
	sendCmd.Flags().StringVar(&sendDBPath, "db", "./comptesupport.db", "Path to the local SQLite journal")
}
