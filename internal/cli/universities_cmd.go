// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// universities_cmd.go - Catalog listing command handlers for unihub CLI.
//
// Handles "unihub universities" and "unihub meta". Listings come from the
// backend when it is reachable, otherwise from the local SQLite snapshot,
// filtered client-side.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/unihub/unihub-tui/internal/catalog"
	"github.com/unihub/unihub-tui/internal/config"
	"github.com/unihub/unihub-tui/internal/storage"
	"github.com/unihub/unihub-tui/internal/util"
)

// RunUniversities executes the university listing command.
func RunUniversities(args *Args) int {
	cfg := config.Global()
	client := catalog.NewClient(cfg.API.BaseURL)

	if id := args.Options["id"]; id != "" {
		return runUniversityDetail(client, id, args)
	}

	filters := filtersFromArgs(args, cfg)

	list, err := client.ListUniversities(context.Background(), filters)
	if err == nil {
		if cfg.Catalog.CacheEnabled && !args.NoCache {
			storeSnapshot(cfg, list.Items)
		}
		return printUniversities(list.Items, list.Total, list.Page, args)
	}
	if !errors.Is(err, catalog.ErrUnavailable) {
		return fail("listing failed: %v", err)
	}

	// backend down: serve the cached snapshot
	items, cacheErr := loadSnapshot(cfg, args)
	if cacheErr != nil {
		return fail("backend unreachable and no usable cache (%v)", cacheErr)
	}
	filtered := catalog.FilterUniversities(items, filters)
	if !args.Quiet {
		fmt.Fprintln(os.Stderr, "Бэкенд недоступен, показаны данные из локального кэша.")
	}
	return printUniversities(filtered, len(filtered), 1, args)
}

// RunMeta executes the catalog dimensions command.
func RunMeta(args *Args) int {
	cfg := config.Global()
	client := catalog.NewClient(cfg.API.BaseURL)

	meta, err := client.Meta(context.Background())
	if err != nil {
		if !errors.Is(err, catalog.ErrUnavailable) {
			return fail("meta failed: %v", err)
		}
		meta, err = loadMetaSnapshot(cfg)
		if err != nil {
			return fail("backend unreachable and no cached dimensions (%v)", err)
		}
	} else if cfg.Catalog.CacheEnabled && !args.NoCache {
		storeMetaSnapshot(cfg, meta)
	}

	if args.JSON {
		out, _ := json.Marshal(meta)
		fmt.Println(string(out))
		return 0
	}

	fmt.Println("Страны:")
	for _, c := range meta.Countries {
		fmt.Printf("  %-8s %s (%s)\n", c.ID, c.Name, c.Code)
	}
	fmt.Println("Программы:")
	for _, p := range meta.Programs {
		fmt.Printf("  %-8s %s\n", p.ID, p.Name)
	}
	fmt.Println("Экзамены:")
	for _, e := range meta.Exams {
		fmt.Printf("  %-8s %s\n", e.ID, e.Name)
	}
	return 0
}

// RunStatus executes the backend health probe.
func RunStatus(args *Args) int {
	cfg := config.Global()
	err := catalog.NewClient(cfg.API.BaseURL).Health(context.Background())
	if args.JSON {
		status := "ok"
		if err != nil {
			status = "unavailable"
		}
		fmt.Printf("{\"backend\":%q,\"status\":%q}\n", cfg.API.BaseURL, status)
	} else if err != nil {
		fmt.Printf("Бэкенд %s недоступен: %v\n", cfg.API.BaseURL, err)
	} else {
		fmt.Printf("Бэкенд %s работает.\n", cfg.API.BaseURL)
	}
	if err != nil {
		return 1
	}
	return 0
}

// =============================================================================
// HELPERS
// =============================================================================

func filtersFromArgs(args *Args, cfg *config.Config) catalog.Filters {
	f := catalog.Filters{
		CountryID: args.Options["country"],
		ProgramID: args.Options["program"],
		ExamID:    args.Options["exam"],
		Search:    args.Options["search"],
		PageSize:  cfg.Catalog.PageSize,
	}
	if v := args.Options["min-score"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinScore = n
		}
	}
	if v := args.Options["page"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	return f
}

func runUniversityDetail(client *catalog.Client, id string, args *Args) int {
	u, err := client.GetUniversity(context.Background(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return fail("университет %q не найден", id)
	}
	if err != nil {
		return fail("detail failed: %v", err)
	}

	if args.JSON {
		out, _ := json.Marshal(u)
		fmt.Println(string(out))
		return 0
	}

	fmt.Println(u.Name)
	if u.Country != nil {
		fmt.Printf("Страна: %s\n", u.Country.Name)
	}
	if u.Description != "" {
		fmt.Println()
		fmt.Println(u.Description)
	}
	if len(u.Programs) > 0 {
		fmt.Println("\nПрограммы:")
		for _, p := range u.Programs {
			fmt.Printf("  - %s\n", p.Name)
		}
	}
	if len(u.Requirements) > 0 {
		fmt.Println("\nТребования:")
		for _, r := range u.Requirements {
			name := r.ExamID
			if r.Exam != nil {
				name = r.Exam.Name
			}
			fmt.Printf("  - %s: от %d баллов\n", name, r.MinScore)
		}
	}
	return 0
}

// printUniversities renders an aligned table. Name widths are measured in
// display cells so Cyrillic and CJK names line up.
func printUniversities(items []catalog.University, total, page int, args *Args) int {
	if args.JSON {
		out, _ := json.Marshal(map[string]interface{}{
			"items": items, "total": total, "page": page,
		})
		fmt.Println(string(out))
		return 0
	}
	if len(items) == 0 {
		fmt.Println("Ничего не найдено.")
		return 0
	}

	const nameWidth = 40
	fmt.Printf("%-10s %s %s\n", "ID", util.PadWidth("Название", nameWidth), "Страна")
	for _, u := range items {
		country := u.CountryID
		if u.Country != nil {
			country = u.Country.Name
		}
		name := u.Name
		if runewidth.StringWidth(name) > nameWidth {
			name = util.TruncateWidth(name, nameWidth)
		}
		fmt.Printf("%-10s %s %s\n", u.ID, util.PadWidth(name, nameWidth), country)
	}
	if !args.Quiet {
		fmt.Printf("\nСтраница %d, всего %d.\n", page, total)
	}
	return 0
}

// =============================================================================
// CACHE PLUMBING
// =============================================================================

func openCache(cfg *config.Config) (*storage.Cache, error) {
	path, err := cfg.CachePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

func storeSnapshot(cfg *config.Config, items []catalog.University) {
	cache, err := openCache(cfg)
	if err != nil {
		return
	}
	defer cache.Close()
	cache.StoreUniversities(items)
}

func loadSnapshot(cfg *config.Config, args *Args) ([]catalog.University, error) {
	if !cfg.Catalog.CacheEnabled || args.NoCache {
		return nil, errors.New("cache disabled")
	}
	cache, err := openCache(cfg)
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	return cache.LoadUniversities()
}

func storeMetaSnapshot(cfg *config.Config, meta *catalog.MetaResponse) {
	cache, err := openCache(cfg)
	if err != nil {
		return
	}
	defer cache.Close()
	cache.StoreMeta(meta)
}

func loadMetaSnapshot(cfg *config.Config) (*catalog.MetaResponse, error) {
	if !cfg.Catalog.CacheEnabled {
		return nil, errors.New("cache disabled")
	}
	cache, err := openCache(cfg)
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	return cache.LoadMeta()
}
