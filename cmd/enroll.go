package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/enroll"
	"github.com/facegate/facegate/internal/facematch"
	"github.com/facegate/facegate/internal/store"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <employee-id> <image-path>",
	Short: "Enroll an employee face into the collection",
	Long: `Enroll a reference photo for an employee. The image is stored in the
capture bucket, indexed into the face collection under the employee ID, and
the registration metadata is written to the registrations table.

Use --dir to enroll a whole folder at once. Images inside a subfolder are
enrolled under the subfolder's name; top-level images use the file name
(without extension) as the employee ID.

Example:
  facegate enroll emp-042 /path/to/emp-042.jpg
  facegate enroll --dir /path/to/reference-photos`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("dir", "", "Enroll every image in a directory, employee ID from file name")
}

// isImageFile checks if a file has a supported image extension
func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func newEnrollService(ctx context.Context, cfg *config.Config) (*enroll.Service, error) {
	awsCfg, err := store.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	objects := store.NewObjectStore(awsCfg, cfg.Storage.Bucket, cfg.AWS.Endpoint)
	indexer := facematch.NewClient(awsCfg, cfg.Face.CollectionID, cfg.Face.MatchThreshold)
	regs := store.NewRegistrationStore(awsCfg, cfg.Records.RegistrationsTable, cfg.AWS.Endpoint)

	return enroll.NewService(objects, indexer, regs, cfg.Storage.Bucket), nil
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	service, err := newEnrollService(ctx, cfg)
	if err != nil {
		return err
	}

	dir := mustGetString(cmd, "dir")
	if dir != "" {
		return enrollDirectory(ctx, service, dir)
	}

	if len(args) != 2 {
		return fmt.Errorf("expected <employee-id> <image-path> arguments")
	}

	reg, err := service.EnrollFile(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("enrolling %s: %w", args[0], err)
	}

	fmt.Printf("Enrolled %s (face %s, stored as %s)\n", reg.EmployeeID, reg.FaceID, reg.ImageKey)
	return nil
}

// enrollTarget pairs an employee ID with the image file to enroll.
type enrollTarget struct {
	employeeID string
	path       string
}

// collectEnrollTargets gathers images from a reference-photo folder. A
// subfolder groups images under one employee ID; top-level images take the
// file name without extension.
func collectEnrollTargets(dir string) ([]enrollTarget, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var targets []enrollTarget
	for _, entry := range entries {
		if entry.IsDir() {
			sub, err := os.ReadDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", entry.Name(), err)
			}
			for _, img := range sub {
				if img.IsDir() || !isImageFile(img.Name()) {
					continue
				}
				targets = append(targets, enrollTarget{
					employeeID: entry.Name(),
					path:       filepath.Join(dir, entry.Name(), img.Name()),
				})
			}
			continue
		}
		if !isImageFile(entry.Name()) {
			continue
		}
		targets = append(targets, enrollTarget{
			employeeID: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			path:       filepath.Join(dir, entry.Name()),
		})
	}
	return targets, nil
}

func enrollDirectory(ctx context.Context, service *enroll.Service, dir string) error {
	targets, err := collectEnrollTargets(dir)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionSetDescription("Enrolling faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("faces"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var failed []string
	for _, target := range targets {
		if _, err := service.EnrollFile(ctx, target.employeeID, target.path); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", target.path, err))
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	if len(failed) > 0 {
		for _, msg := range failed {
			fmt.Fprintf(os.Stderr, "failed %s\n", msg)
		}
		return fmt.Errorf("%d of %d enrollments failed", len(failed), len(targets))
	}

	fmt.Printf("Enrolled %d faces\n", len(targets))
	return nil
}
