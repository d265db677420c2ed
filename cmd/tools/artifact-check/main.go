// cmd/tools/artifact-check/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"retention-service/internal/attrition/artifact"
	"retention-service/internal/common/logger"
	"retention-service/pkg/registry"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	manifestCmd := flag.NewFlagSet("manifest", flag.ExitOnError)
	writeCmd := flag.NewFlagSet("write-manifest", flag.ExitOnError)

	modelValidate := validateCmd.String("model", "configs/artifacts/model.json", "Path to the model export")
	scalerValidate := validateCmd.String("scaler", "configs/artifacts/scaler.json", "Path to the scaler export")
	kindValidate := validateCmd.String("kind", "", "Model kind (lightgbm, logistic); detected when empty")

	modelInspect := inspectCmd.String("model", "configs/artifacts/model.json", "Path to the model export")
	scalerInspect := inspectCmd.String("scaler", "configs/artifacts/scaler.json", "Path to the scaler export")

	manifestPath := manifestCmd.String("path", "configs/artifacts/manifest.json", "Path to the manifest")

	writePath := writeCmd.String("path", "configs/artifacts/manifest.json", "Manifest to write")
	writeModel := writeCmd.String("model", "model.json", "Model path, relative to the manifest")
	writeScaler := writeCmd.String("scaler", "scaler.json", "Scaler path, relative to the manifest")
	writeVersion := writeCmd.String("version", "", "Artifact version")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		bundle, err := artifact.Load(artifact.Source{
			ModelPath:  *modelValidate,
			ScalerPath: *scalerValidate,
			ModelKind:  *kindValidate,
		}, toolLogger())
		if err != nil {
			fmt.Printf("Artifact validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Artifact pair is valid (%s, %d model columns).\n",
			bundle.Classifier.Kind(), len(bundle.Classifier.FeatureNames()))

	case "inspect":
		inspectCmd.Parse(os.Args[2:])
		if err := inspect(*modelInspect, *scalerInspect); err != nil {
			fmt.Printf("Inspect failed: %v\n", err)
			os.Exit(1)
		}

	case "manifest":
		manifestCmd.Parse(os.Args[2:])
		m, err := registry.LoadManifest(*manifestPath)
		if err != nil {
			fmt.Printf("Manifest validation failed: %v\n", err)
			os.Exit(1)
		}
		if _, err := artifact.Load(artifact.SourceFromManifest(m), toolLogger()); err != nil {
			fmt.Printf("Manifest validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Manifest %s (version %s) validation passed.\n", *manifestPath, m.Version)

	case "write-manifest":
		writeCmd.Parse(os.Args[2:])
		if *writeVersion == "" {
			fmt.Println("Error: version is required for write-manifest.")
			writeCmd.Usage()
			os.Exit(1)
		}
		if err := writeManifest(*writePath, *writeModel, *writeScaler, *writeVersion); err != nil {
			fmt.Printf("Error writing manifest: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote manifest %s\n", *writePath)

	case "help":
		fallthrough
	default:
		help()
	}
}

func inspect(modelPath, scalerPath string) error {
	scaler, err := artifact.LoadScaler(scalerPath, "")
	if err != nil {
		return err
	}
	model, err := artifact.LoadClassifier(modelPath, "", "")
	if err != nil {
		return err
	}
	fmt.Printf("Scaler columns (%d):\n  %s\n", len(scaler.FeatureNames()), strings.Join(scaler.FeatureNames(), ", "))
	fmt.Printf("Model columns (%s, %d):\n  %s\n", model.Kind(), len(model.FeatureNames()), strings.Join(model.FeatureNames(), ", "))
	if lgb, ok := model.(*artifact.LightGBMModel); ok {
		fmt.Printf("Trees: %d\n", lgb.NumTrees())
	}
	return nil
}

// writeManifest records checksums of the current files so a later load can
// detect a half-replaced pair.
func writeManifest(path, modelPath, scalerPath, version string) error {
	m := &registry.ArtifactManifest{
		Version:     version,
		LastUpdated: time.Now().Format(time.RFC3339),
		Model:       registry.ArtifactEntry{Path: modelPath},
		Scaler:      registry.ArtifactEntry{Path: scalerPath},
	}
	resolved := *m
	resolved.Resolve(filepath.Dir(path))

	model, err := artifact.LoadClassifier(resolved.Model.Path, "", "")
	if err != nil {
		return err
	}
	m.Model.Kind = model.Kind()
	if m.Model.SHA256, err = artifact.Checksum(resolved.Model.Path); err != nil {
		return err
	}
	if m.Scaler.SHA256, err = artifact.Checksum(resolved.Scaler.Path); err != nil {
		return err
	}
	return registry.SaveManifest(path, m)
}

func help() {
	fmt.Println("Usage:")
	fmt.Println("  artifact-check validate -model <path> -scaler <path> [-kind lightgbm|logistic]")
	fmt.Println("  artifact-check inspect -model <path> -scaler <path>")
	fmt.Println("  artifact-check manifest -path <manifest.json>")
	fmt.Println("  artifact-check write-manifest -path <manifest.json> -model <rel> -scaler <rel> -version <v>")
}

// toolLogger logs at LOG_LEVEL, warn by default.
func toolLogger() logger.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return logger.NewStructured(level, "console")
}
