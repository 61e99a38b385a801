package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"summit-scheduler/core/config"
	coreEntity "summit-scheduler/core/entity"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/server"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/event/entity"
	"summit-scheduler/modules/event/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// @title Summit Scheduler API
// @version 1.0
// @description Event scheduling with free-slot planning and moderator claims

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "summit",
	Short:         "Summit Scheduler - event planning and moderation service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		srv, err := server.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initialize server: %w", err)
		}
		return srv.Start()
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume background notification jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return server.RunWorker(cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return server.RunMigrations(cmd.Context(), cfg)
	},
}

var (
	slotsStart      string
	slotsEnd        string
	slotsActivities []string
	slotsDuration   time.Duration
	slotsBreak      time.Duration
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print free activity slots for an event window",
	Example: `  summit slots --start 2026-05-14T09:00:00Z --end 2026-05-14T13:00:00Z \
    --activity 2026-05-14T10:00:00Z/2026-05-14T11:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(time.RFC3339, slotsStart)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, slotsEnd)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		activities, err := parseActivities(slotsActivities)
		if err != nil {
			return err
		}

		planner := service.NewSlotPlanner(slotsDuration, slotsBreak)
		out := cmd.OutOrStdout()
		for _, slot := range planner.ComputeAvailableSlots(start, end, activities) {
			fmt.Fprintf(out, "%s  %s\n", slot.Start().Format(time.RFC3339), slot.End().Format(time.RFC3339))
		}
		return nil
	},
}

var (
	tokenUser string
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		role := coreEntity.Role(strings.ToLower(tokenRole))
		if !role.Valid() {
			return fmt.Errorf("--role %q: unknown role", tokenRole)
		}
		userID := uuid.New()
		if tokenUser != "" {
			parsed, err := uuid.Parse(tokenUser)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			userID = parsed
		}
		token, err := utils.GenerateToken(cfg.JWT.Secret, userID, role, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (random when empty)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(coreEntity.RoleModerator), "organizer, moderator, participant or jury")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	slotsCmd.Flags().StringVar(&slotsStart, "start", "", "event start (RFC3339)")
	slotsCmd.Flags().StringVar(&slotsEnd, "end", "", "event end (RFC3339)")
	slotsCmd.Flags().StringArrayVar(&slotsActivities, "activity", nil, "scheduled activity as start/end (RFC3339), repeatable")
	slotsCmd.Flags().DurationVar(&slotsDuration, "duration", 90*time.Minute, "activity length")
	slotsCmd.Flags().DurationVar(&slotsBreak, "break", 15*time.Minute, "break between activities")
	_ = slotsCmd.MarkFlagRequired("start")
	_ = slotsCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, slotsCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	return nil
}

func parseActivities(raw []string) ([]entity.Activity, error) {
	activities := make([]entity.Activity, 0, len(raw))
	for _, r := range raw {
		from, to, ok := strings.Cut(r, "/")
		if !ok {
			return nil, fmt.Errorf("--activity %q: want start/end", r)
		}
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, fmt.Errorf("--activity %q: %w", r, err)
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, fmt.Errorf("--activity %q: %w", r, err)
		}
		activities = append(activities, entity.Activity{StartTime: start, EndTime: end})
	}
	return activities, nil
}
