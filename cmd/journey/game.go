package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-journey/internal/console"
	"github.com/KirkDiggler/rpg-journey/internal/content"
	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/session"
)

// Camp menu option IDs
const (
	campFight   = "FIGHT"
	campBoss    = "BOSS"
	campStatus  = "STATUS"
	campHistory = "HISTORY"
	campItem    = "ITEM"
	campRest    = "REST"
	campSave    = "SAVE"
	campLoad    = "LOAD"
	campQuit    = "QUIT"
	itemBack    = "BACK"
)

// historyLimit is how many past fights the camp shows
const historyLimit = 5

// game is the camp loop between encounters
type game struct {
	session *session.Session
	bridge  *input.Bridge
	console *console.Console
	catalog *content.Catalog
}

func (g *game) run(ctx context.Context) error {
	for {
		hero := g.session.Hero()
		if hero == nil || !hero.IsAlive() {
			g.console.Println("Game over.")
			return nil
		}

		choice, err := g.bridge.RequestChoice(ctx, g.campMenu(hero))
		if err != nil {
			if errors.IsCanceled(err) {
				return nil
			}
			return err
		}

		done, err := g.act(ctx, choice)
		if err != nil {
			if errors.IsCanceled(err) {
				return nil
			}
			if !errors.GetCode(err).Recoverable() {
				return err
			}
			slog.WarnContext(ctx, "camp action failed",
				"action", choice,
				"error", err,
				"meta", errors.GetMeta(err))
			g.console.Println(fmt.Sprintf("That did not work: %s", errors.GetMessage(err)))
			continue
		}
		if done {
			return nil
		}
	}
}

func (g *game) campMenu(hero *character.Character) *input.ChoiceRequest {
	options := []input.Option{{ID: campFight, Label: "Look for a fight"}}
	if boss := g.boss(); boss != nil {
		options = append(options, input.Option{ID: campBoss, Label: "Challenge " + boss.Name})
	}
	options = append(options,
		input.Option{ID: campStatus, Label: "Check status"},
		input.Option{ID: campHistory, Label: "Review past fights"},
		input.Option{ID: campItem, Label: "Use an item"},
		input.Option{ID: campRest, Label: "Rest"},
		input.Option{ID: campSave, Label: "Save"},
		input.Option{ID: campLoad, Label: "Load"},
		input.Option{ID: campQuit, Label: "Quit"},
	)

	return &input.ChoiceRequest{
		Title: fmt.Sprintf("%s is at camp. HP %d/%d, Gold %d, Level %d",
			hero.Name(), hero.CurrentLife(), hero.MaxLife(), hero.Gold(), hero.Level()),
		Options: options,
		Context: input.ChoiceContext{
			ActorName: hero.Name(),
			Kind:      input.KindCampAction,
		},
	}
}

// boss returns the boss to offer, nil until the run calls for one
func (g *game) boss() *content.Enemy {
	run := g.session.RunContext()
	if run == nil || !run.ShouldSpawnBoss() {
		return nil
	}
	bosses := g.catalog.Bosses()
	if len(bosses) == 0 {
		return nil
	}
	return &bosses[0]
}

// act carries out one camp choice and reports whether the game is over
func (g *game) act(ctx context.Context, choice string) (bool, error) {
	switch choice {
	case campFight:
		_, err := g.session.StartEncounter(ctx, "")
		return false, err
	case campBoss:
		boss := g.boss()
		if boss == nil {
			return false, nil
		}
		_, err := g.session.StartEncounter(ctx, boss.Name)
		return false, err
	case campStatus:
		g.printStatus()
	case campHistory:
		return false, g.printHistory(ctx)
	case campItem:
		return false, g.useItem(ctx)
	case campRest:
		g.session.Rest()
	case campSave:
		if err := g.session.SaveGame(ctx); err != nil {
			g.console.Println(fmt.Sprintf("Could not save: %s", errors.GetMessage(err)))
		}
	case campLoad:
		if _, err := g.session.LoadGame(ctx); err != nil {
			if !errors.IsNotFound(err) {
				return false, err
			}
			g.console.Println("No save found.")
		}
	case campQuit:
		g.console.Println("Farewell.")
		return true, nil
	}
	return false, nil
}

func (g *game) printStatus() {
	status, ok := g.session.HeroStatus()
	if !ok {
		return
	}
	g.console.Println(fmt.Sprintf("%s the %s, level %d", status.Name, status.ClassName, status.Level))
	g.console.Println(fmt.Sprintf("HP %d/%d  Gold %d  XP %d/%d",
		status.Life, status.MaxLife, status.Gold, status.XP, status.XPToNextLevel))

	inventory := g.session.Inventory()
	if len(inventory) == 0 {
		g.console.Println("Inventory is empty.")
		return
	}
	for _, item := range inventory {
		g.console.Println(fmt.Sprintf("  %s [%s] %s", item.Name, item.Rarity, item.Description))
	}
}

func (g *game) printHistory(ctx context.Context) error {
	history, err := g.session.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		g.console.Println("No fights yet.")
		return nil
	}
	for _, e := range history {
		line := fmt.Sprintf("  %s vs %s: %s in %d rounds, %d gold, %d XP",
			e.FinishedAt.Format("15:04:05"), e.Enemy, e.Result, e.Rounds, e.Gold, e.XP)
		if e.Loot != "" {
			line += ", found " + e.Loot
		}
		g.console.Println(line)
	}
	return nil
}

func (g *game) useItem(ctx context.Context) error {
	var options []input.Option
	for _, item := range g.session.Inventory() {
		if item.IsConsumable() {
			options = append(options, input.Option{ID: item.ID, Label: item.Name})
		}
	}
	if len(options) == 0 {
		g.console.Println("Nothing to use.")
		return nil
	}
	options = append(options, input.Option{ID: itemBack, Label: "Back"})

	choice, err := g.bridge.RequestChoice(ctx, &input.ChoiceRequest{
		Title:   "Use which item?",
		Options: options,
		Context: input.ChoiceContext{
			Kind:     input.KindCampAction,
			Metadata: map[string]string{"sub_type": "ITEM_USAGE"},
		},
	})
	if err != nil || choice == itemBack {
		return err
	}
	if !g.session.UseItem(choice) {
		g.console.Println("That item cannot be used now.")
	}
	return nil
}
