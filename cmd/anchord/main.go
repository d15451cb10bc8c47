// main.go - anchord: run the anchored-proof pipeline from a config file.
//
// The pipeline:
//   - Derive public parameters from the configured seeds
//   - Sample a fresh master secret and compute the anchor
//   - Build the enrollment tree (bounded workers, deadline from config)
//   - Generate and verify the configured number of proofs
//   - Write the last bundle to proof_path and print a metrics summary
//
// Usage:
//   anchord [-config anchord.json]

package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"anchoredproof/internal/anchored"
)

func main() {
	configPath := flag.String("config", "anchord.json", "path to the JSON configuration file")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		os.Stderr.WriteString("invalid config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Close()

	metrics := NewMetricsCollector()
	logger.Info("anchord starting: range=%d proofs=%d workers=%d", config.Range, config.NumProofs, config.MaxConcurrency)

	// Public parameters.
	seedH, seedB := config.GeneratorSeeds()
	params, err := anchored.Setup(seedH, seedB)
	if err != nil {
		logger.Fatal("parameter setup failed: %v", err)
	}
	logger.Debug("generators derived")

	// Master secret and anchor.
	secret, err := anchored.SampleSecret(nil)
	if err != nil {
		logger.Fatal("secret sampling failed: %v", err)
	}
	anchor := anchored.Anchor(&secret, &params.B)

	// Enrollment tree.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	tree, err := anchored.BuildTreeWorkers(ctx, config.Range, &anchor, &secret, config.MaxConcurrency)
	if err != nil {
		metrics.RecordError()
		logger.Fatal("tree build failed: %v", err)
	}
	metrics.RecordTreeBuild(time.Since(start))
	logger.Info("tree built in %v: %s", time.Since(start), tree.Summary())

	root := tree.Root()
	var lastProof *anchored.AnchoredProof

	for i := 0; i < config.NumProofs; i++ {
		witness := config.Witness
		if witness == 0 {
			witness = uint64(i)%tree.NumLeaves() + 1
		}

		blinding, err := anchored.SampleSecret(nil)
		if err != nil {
			metrics.RecordError()
			logger.Fatal("blinding sampling failed: %v", err)
		}
		input := &anchored.ProofInput{
			Secret:   secret,
			Blinding: blinding,
			Params:   params,
			Anchor:   anchor,
			Tree:     tree,
		}
		input.Witness.SetUint64(witness)

		start = time.Now()
		proof, err := anchored.GenerateProof(input)
		if err != nil {
			metrics.RecordError()
			logger.Error("proof %d (witness %d) failed: %v", i, witness, err)
			continue
		}
		metrics.RecordProofGeneration(time.Since(start))
		logger.Debug("proof %d generated for witness %d (leaf index %d)", i, witness, proof.LeafIndex)

		start = time.Now()
		if err := anchored.VerifyProof(params, &anchor, root, tree.NumLeaves(), proof); err != nil {
			metrics.RecordError()
			logger.Error("proof %d rejected: %v", i, err)
			continue
		}
		metrics.RecordProofVerification(time.Since(start))
		lastProof = proof
	}

	if lastProof != nil && config.ProofPath != "" {
		data, err := json.MarshalIndent(lastProof, "", "  ")
		if err != nil {
			logger.Error("proof serialization failed: %v", err)
		} else if err := os.WriteFile(config.ProofPath, data, 0644); err != nil {
			logger.Error("writing %s failed: %v", config.ProofPath, err)
		} else {
			logger.Info("last bundle written to %s (%d bytes)", config.ProofPath, len(data))
		}
	}

	logger.Info("metrics summary:")
	for _, line := range metrics.Summary() {
		logger.Info("  %s", line)
	}
}
