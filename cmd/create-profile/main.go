// CLI tool to create or replace a user's profile, standing in for the profile
// service when running locally, and print the energy figures the ledger derives from it.
// Usage: go run ./cmd/create-profile
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lg/energy-ledger/internal/config"
	"lg/energy-ledger/internal/ledger"
	"lg/energy-ledger/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open store: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	p, err := readProfile(bufio.NewReader(os.Stdin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
		os.Exit(1)
	}
	if err := backend.UpsertProfile(ctx, p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving profile: %v\n", err)
		os.Exit(1)
	}

	view, err := ledger.NewService(backend).ProfileEnergy(ctx, p.UserID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing energy: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nProfile saved!\n")
	fmt.Printf("  User ID:       %d\n", p.UserID)
	if view.Missing != "" {
		fmt.Printf("  Incomplete:    %s is required for energy figures\n", view.Missing)
		return
	}
	fmt.Printf("  BMR:           %.0f kcal\n", view.Energy.BMR)
	fmt.Printf("  Rest calories: %.0f kcal\n", view.Energy.RestCalories)
	fmt.Printf("  Daily target:  %.0f kcal\n", *view.TargetIntake)
}

// readProfile prompts for each field. Blank optional answers leave the field unset.
func readProfile(reader *bufio.Reader) (ledger.Profile, error) {
	ask := func(label string) string {
		fmt.Print(label + ": ")
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	var p ledger.Profile
	id, err := strconv.ParseInt(ask("User ID"), 10, 64)
	if err != nil || id <= 0 {
		return p, fmt.Errorf("user id must be a positive integer")
	}
	p.UserID = id

	if s := strings.ToUpper(ask("Sex (M/F)")); s != "" {
		if s != "M" && s != "F" {
			return p, fmt.Errorf("sex must be M or F")
		}
		p.Sex = &s
	}
	if p.Age, err = optionalInt(ask("Age")); err != nil {
		return p, fmt.Errorf("age: %w", err)
	}
	if p.HeightCM, err = optionalFloat(ask("Height (cm)")); err != nil {
		return p, fmt.Errorf("height: %w", err)
	}
	if p.StartWeight, err = optionalFloat(ask("Start weight (kg)")); err != nil {
		return p, fmt.Errorf("start weight: %w", err)
	}
	if level := strings.ToLower(ask("Activity level (sedentary/light/moderate/active/very_active)")); level != "" {
		if !ledger.ValidActivityLevel(level) {
			return p, fmt.Errorf("activity level must be one of: sedentary, light, moderate, active, very_active")
		}
		p.ActivityLevel = &level
	}
	if goal := strings.ToLower(ask("Goal (loss/maintenance/gain)")); goal != "" {
		switch goal {
		case "loss", "maintenance", "gain":
			p.GoalType = &goal
		default:
			return p, fmt.Errorf("goal must be loss, maintenance or gain")
		}
	}
	return p, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%q is not a positive integer", s)
	}
	return &n, nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil, fmt.Errorf("%q is not a positive number", s)
	}
	return &f, nil
}
