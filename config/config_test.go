package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chip8ir/chip8ir/printer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembler.Origin != 0x200 {
		t.Errorf("Expected Origin=0x200, got 0x%X", cfg.Assembler.Origin)
	}
	if cfg.Listing.Style != "clean" {
		t.Errorf("Expected Style=clean, got %s", cfg.Listing.Style)
	}
	if cfg.Listing.MnemonicColumn != 4 {
		t.Errorf("Expected MnemonicColumn=4, got %d", cfg.Listing.MnemonicColumn)
	}
	if len(cfg.Disassembler.EntryPoints) != 0 {
		t.Errorf("Expected no default entry points, got %v", cfg.Disassembler.EntryPoints)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembler.Origin = 0x600
	cfg.Disassembler.EntryPoints = []uint16{0x200, 0x300}
	cfg.Listing.Style = "listing"
	cfg.Listing.MnemonicColumn = 6

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembler.Origin != 0x600 {
		t.Errorf("Expected Origin=0x600, got 0x%X", loaded.Assembler.Origin)
	}
	if len(loaded.Disassembler.EntryPoints) != 2 || loaded.Disassembler.EntryPoints[1] != 0x300 {
		t.Errorf("Expected entry points [0x200 0x300], got %v", loaded.Disassembler.EntryPoints)
	}
	if loaded.Listing.Style != "listing" {
		t.Errorf("Expected Style=listing, got %s", loaded.Listing.Style)
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.Assembler.Origin != 0x200 {
		t.Errorf("Expected default Origin=0x200, got 0x%X", cfg.Assembler.Origin)
	}
}

func TestPrinterOptionsTranslatesListingStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Listing.Style = "listing"
	cfg.Listing.MnemonicColumn = 5

	opts := cfg.PrinterOptions()
	if opts.Style != printer.StyleListing {
		t.Errorf("Expected StyleListing, got %v", opts.Style)
	}
	if opts.MnemonicColumn != 5 {
		t.Errorf("Expected MnemonicColumn=5, got %d", opts.MnemonicColumn)
	}
}
