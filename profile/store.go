package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// testDraftSuffix marks a profile file as a draft to be skipped by
// directory discovery (spec §6: "_TEST.json suffix marks drafts").
const testDraftSuffix = "_TEST.json"

// Load reads and decodes a single profile file.
func Load(path string) (*HandProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	return FromJSON(data)
}

// SaveAtomic writes a profile to path using a temp-file-then-rename
// sequence, so a reader never observes a partially-written file (spec §6).
func SaveAtomic(path string, hp *HandProfile) error {
	data, err := ToJSON(hp)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("profile: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("profile: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("profile: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("profile: rename temp file into place: %w", err)
	}
	return nil
}

// Discover walks dir (non-recursively) for *.json profile files, skipping
// drafts (suffixed _TEST.json), and returns the parsed profiles keyed by
// file name. Parse errors are collected rather than aborting the whole
// scan, since one malformed draft shouldn't hide the rest of the profiles
// in a profile directory.
func Discover(dir string) (map[string]*HandProfile, map[string]error) {
	profiles := map[string]*HandProfile{}
	errs := map[string]error{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		errs["."] = fmt.Errorf("profile: read dir %s: %w", dir, err)
		return profiles, errs
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.HasSuffix(name, testDraftSuffix) {
			continue
		}
		hp, err := Load(filepath.Join(dir, name))
		if err != nil {
			errs[name] = err
			continue
		}
		profiles[name] = hp
	}
	return profiles, errs
}
