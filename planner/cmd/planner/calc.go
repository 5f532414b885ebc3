package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"

	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/server"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/vto"
	"github.com/Krimson/dental-vto/planner/pkg/models"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func calcCommand() *cobra.Command {
	var (
		inputPath  string
		format     string
		tablesPath string
		remote     string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run one VTO calculation from a JSON or YAML input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatTable {
				return fmt.Errorf("unknown format %q, want %s or %s", format, formatJSON, formatTable)
			}

			in, err := readInput(inputPath)
			if err != nil {
				return err
			}

			var resp *models.CalculationResponse
			if remote != "" {
				resp, err = calculateRemote(cmd, remote, in)
			} else {
				resp, err = calculateLocal(cmd, tablesPath, in)
			}
			if err != nil {
				return err
			}

			if format == formatTable {
				return printTable(cmd.OutOrStdout(), resp)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file (.json, .yaml or .yml)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or table")
	cmd.Flags().StringVar(&tablesPath, "tables", "", "Path to reference tables YAML")
	cmd.Flags().StringVar(&remote, "remote", "", "Calculate on a running planner via gRPC (host:port)")
	_ = cmd.MarkFlagRequired("input")
	cmd.MarkFlagsMutuallyExclusive("tables", "remote")

	return cmd
}

func readInput(path string) (vto.Input, error) {
	var in vto.Input

	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &in)
	default:
		err = json.Unmarshal(data, &in)
	}
	if err != nil {
		return in, fmt.Errorf("decode input %s: %w", path, err)
	}
	return in, nil
}

func calculateLocal(cmd *cobra.Command, tablesPath string, in vto.Input) (*models.CalculationResponse, error) {
	engine, err := newEngine(tablesPath)
	if err != nil {
		return nil, err
	}
	return service.NewPlannerService(engine, nil).Calculate(cmd.Context(), metrics.TransportCLI, in)
}

func calculateRemote(cmd *cobra.Command, addr string, in vto.Input) (*models.CalculationResponse, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	return server.NewPlannerClient(conn).Calculate(cmd.Context(), &in)
}

func printTable(out io.Writer, resp *models.CalculationResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "step\tname\tarch\tR6\tR3\tInc\tL3\tL6\t\n")
	for _, step := range resp.Result.Steps {
		writeSegments(tw, step.Number, string(step.Name), "upper", step.Upper)
		writeSegments(tw, step.Number, string(step.Name), "lower", step.Lower)
	}
	upper, lower := resp.Result.Final()
	writeSegments(tw, 0, "total", "upper", upper)
	writeSegments(tw, 0, "total", "lower", lower)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "midline correction: %+.2f mm\n", resp.Result.MidlineCorrection)
	fmt.Fprintf(out, "space: upper %s/%s, lower %s/%s\n",
		resp.Spaces.UpperRight, resp.Spaces.UpperLeft, resp.Spaces.LowerRight, resp.Spaces.LowerLeft)

	for _, arch := range []struct {
		name  string
		teeth []vto.ToothMovement
	}{{"upper", resp.Final.Upper}, {"lower", resp.Final.Lower}} {
		for _, tm := range arch.teeth {
			labels := strings.TrimSpace(tm.Horizontal + " " + tm.Vertical)
			if labels == "" {
				labels = "-"
			}
			fmt.Fprintf(out, "%s %-3s %5.2f mm  %s\n", arch.name, tm.Tooth, tm.Magnitude, labels)
		}
	}
	return nil
}

func writeSegments(w io.Writer, number int, name, arch string, s vto.Segments) {
	step := "-"
	if number > 0 {
		step = fmt.Sprint(number)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		step, name, arch, vec(s.R6), vec(s.R3), vec(s.Inc), vec(s.L3), vec(s.L6))
}

func vec(v vto.Vector) string {
	return fmt.Sprintf("%+.2f/%+.2f", v.Horizontal, v.Vertical)
}
