// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cropadvisor/internal/client"
	"github.com/tomtom215/cropadvisor/internal/recommend/profiles"
)

// identityFlags are the optional owner of a recommendation.
type identityFlags struct {
	farmerUID string
	parcelID  int64
}

func (f *identityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.farmerUID, "farmer", "", "farmer UID; records the advice in history")
	cmd.Flags().Int64Var(&f.parcelID, "parcel", 0, "land parcel ID")
}

func (f *identityFlags) parcel(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("parcel") {
		return nil
	}
	id := f.parcelID
	return &id
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name) //nolint:errcheck // flag is registered above
	}
}

// soilFlag binds one soil measurement flag to its profile range.
type soilFlag struct {
	name  string
	value *float64
	rng   func(p *profiles.Profile) profiles.Range
}

func soilFlags(req *client.CropRequest) []soilFlag {
	return []soilFlag{
		{"n", &req.Nitrogen, func(p *profiles.Profile) profiles.Range { return p.Nitrogen }},
		{"p", &req.Phosphorus, func(p *profiles.Profile) profiles.Range { return p.Phosphorus }},
		{"k", &req.Potassium, func(p *profiles.Profile) profiles.Range { return p.Potassium }},
		{"ph", &req.PH, func(p *profiles.Profile) profiles.Range { return p.PH }},
		{"rainfall", &req.Rainfall, func(p *profiles.Profile) profiles.Range { return p.Rainfall }},
	}
}

// applySoil fills unset soil flags from the named crop profile, or reports
// the flags that must be given when no profile is used. Explicit values
// outside the profile are noted on stderr.
func applySoil(cmd *cobra.Command, req *client.CropRequest, like string) error {
	flags := soilFlags(req)

	if like == "" {
		var missing []string
		for _, f := range flags {
			if !cmd.Flags().Changed(f.name) {
				missing = append(missing, strconv.Quote(f.name))
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("required flag(s) %s not set (or use --like)", strings.Join(missing, ", "))
		}
		return nil
	}

	p, ok := profiles.Lookup(like)
	if !ok {
		return fmt.Errorf("unknown crop %q (known: %s)", like, strings.Join(profiles.Names(), ", "))
	}
	for _, f := range flags {
		r := f.rng(&p)
		if !cmd.Flags().Changed(f.name) {
			*f.value = r.Mid()
			continue
		}
		if !r.Contains(*f.value) {
			if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "note: %s %v is outside the %s profile [%v, %v]\n",
				f.name, *f.value, p.Name, r.Min, r.Max); err != nil {
				return err
			}
		}
	}
	return nil
}

func cropCmd(opts *globalOptions) *cobra.Command {
	var (
		req      client.CropRequest
		temp     float64
		humidity float64
		like     string
		identity identityFlags
	)

	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Recommend crops for a soil sample",
		Long: `Recommend the best crop and up to two alternatives for the given soil and
climate measurements. Temperature and humidity default on the server when
omitted.

With --like CROP, unset soil flags take the midpoint of that crop's profile:

  advisorctl crop --like rice --rainfall 90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := applySoil(cmd, &req, like); err != nil {
				return err
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temp
			}
			if cmd.Flags().Changed("humidity") {
				req.Humidity = &humidity
			}
			req.FarmerUID = identity.farmerUID
			req.LandParcelID = identity.parcel(cmd)

			c, err := opts.client()
			if err != nil {
				return err
			}
			advice, err := c.RecommendCrop(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("crop recommendation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, advice)
			}
			rows := [][]string{{"RANK", "CROP", "PROBABILITY"}}
			for i, p := range advice.Probabilities {
				if i >= len(advice.Alternatives) {
					break
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), p.Label, fmt.Sprintf("%.2f", p.Probability)})
			}
			if _, err := fmt.Fprintln(out, advice.Advice); err != nil {
				return err
			}
			return table(out, rows)
		},
	}

	cmd.Flags().Float64Var(&req.Nitrogen, "n", 0, "nitrogen")
	cmd.Flags().Float64Var(&req.Phosphorus, "p", 0, "phosphorus")
	cmd.Flags().Float64Var(&req.Potassium, "k", 0, "potassium")
	cmd.Flags().Float64Var(&temp, "temperature", 0, "temperature in °C (server default 25)")
	cmd.Flags().Float64Var(&humidity, "humidity", 0, "relative humidity in % (server default 60)")
	cmd.Flags().Float64Var(&req.PH, "ph", 0, "soil pH")
	cmd.Flags().Float64Var(&req.Rainfall, "rainfall", 0, "rainfall in mm")
	cmd.Flags().StringVar(&like, "like", "", "fill unset soil flags from a crop profile")
	identity.register(cmd)

	return cmd
}

func fertilizerCmd(opts *globalOptions) *cobra.Command {
	var (
		req      client.FertilizerRequest
		identity identityFlags
	)

	cmd := &cobra.Command{
		Use:   "fertilizer",
		Short: "Suggest fertilizers from N, P and K readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.FarmerUID = identity.farmerUID
			req.LandParcelID = identity.parcel(cmd)

			c, err := opts.client()
			if err != nil {
				return err
			}
			advice, err := c.RecommendFertilizer(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("fertilizer recommendation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, advice)
			}
			if _, err := fmt.Fprintln(out, advice.Advice); err != nil {
				return err
			}
			for _, r := range advice.Recommendations {
				if _, err := fmt.Fprintln(out, "  -", r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.Nitrogen, "n", 0, "nitrogen")
	cmd.Flags().Float64Var(&req.Phosphorus, "p", 0, "phosphorus")
	cmd.Flags().Float64Var(&req.Potassium, "k", 0, "potassium")
	identity.register(cmd)
	markRequired(cmd, "n", "p", "k")

	return cmd
}

func historyCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history FARMER_UID",
		Short: "List a farmer's advisory history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			hist, err := c.History(cmd.Context(), args[0], limit)
			if err != nil {
				return fmt.Errorf("history lookup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, hist)
			}
			if hist.Count == 0 {
				_, err := fmt.Fprintf(out, "No advisory records for %s\n", hist.FarmerUID)
				return err
			}

			rows := [][]string{{"CREATED", "TYPE", "PARCEL", "RECOMMENDATIONS"}}
			for i := range hist.Records {
				rec := &hist.Records[i]
				parcel := "-"
				if rec.LandParcelID != nil {
					parcel = strconv.FormatInt(*rec.LandParcelID, 10)
				}
				recs := "-"
				if summary, err := rec.Summary(); err == nil && len(summary.Recommendations) > 0 {
					recs = strings.Join(summary.Recommendations, ", ")
				}
				rows = append(rows, []string{rec.CreatedAt.Local().Format(time.DateTime), string(rec.Type), parcel, recs})
			}
			return table(out, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records (server default 20, max 100)")
	return cmd
}

func modelCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Show the live crop model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			info, err := c.Model(cmd.Context())
			if err != nil {
				return fmt.Errorf("model status failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, info)
			}
			return table(out, [][]string{
				{"Source", string(info.Source)},
				{"Trained", info.TrainedAt.Local().Format(time.DateTime)},
				{"Holdout accuracy", fmt.Sprintf("%.3f", info.HoldoutAccuracy)},
				{"Crops", strconv.Itoa(len(info.Labels))},
				{"Trees", strconv.Itoa(info.Estimators)},
				{"Artifact", info.ArtifactPath},
				{"Load status", string(info.LoadStatus)},
			})
		},
	}
}
