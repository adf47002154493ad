// Command scale-editor is an interactive terminal editor for a demo
// craft: select a part, step its scale, and watch the rescale engine
// apply geometry, cascades and secondary-attribute updates live.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gdamore/tcell/v2"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/rescale"
	"github.com/gomker/partscale/save"
	"github.com/gomker/partscale/scaletype"
	"github.com/gomker/partscale/techgate"
)

// Config is the editor's environment configuration
type Config struct {
	ConfigDir string `env:"PARTSCALE_CONFIG_DIR" envDefault:"configs"`
	SavePath  string `env:"PARTSCALE_SAVE" envDefault:"partscale.db"`
	Mute      bool   `env:"PARTSCALE_MUTE"`
}

type editor struct {
	screen tcell.Screen
	craft  *craft
	store  *save.Store

	selected  int
	shiftHeld bool
	dirty     bool
	status    string
}

// MarkDirty implements rescale.Dirtier
func (e *editor) MarkDirty(*part.Part) {
	e.dirty = true
}

func main() {
	logFile, err := os.OpenFile("scale-editor.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	db, err := config.LoadDir(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	ensureDemoEntries(db)

	registry := scaletype.NewRegistry()
	registry.Load(db)

	store, err := save.Open(cfg.SavePath)
	if err != nil {
		return fmt.Errorf("open save: %w", err)
	}
	defer store.Close()

	if err := techgate.Reload(store); err != nil {
		log.Printf("tech gate reload failed, running ungated: %v", err)
	}

	if !cfg.Mute {
		registerAudioFeedback()
	}
	registerMassUpdater()

	e := &editor{dirty: true}
	e.craft, err = buildCraft(db, registry)
	if err != nil {
		return fmt.Errorf("build craft: %w", err)
	}
	e.store = store

	for _, m := range e.craft.modules {
		m.SetInteractive(true)
		m.SetDirtier(e)
		m.SetOverrideProbe(func() bool { return e.shiftHeld })
		if _, err := m.LoadFrom(store); err != nil {
			log.Printf("load state for %s: %v", m.Part().UID, err)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	e.screen = screen

	return e.loop()
}

func (e *editor) loop() error {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- e.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if quit := e.handleEvent(ev); quit {
				return nil
			}
		case <-ticker.C:
			e.craft.root.Tick()
			if e.dirty {
				e.render()
				e.dirty = false
			}
		}
	}
}

func (e *editor) handleEvent(ev tcell.Event) (quit bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resized := ev.(*tcell.EventResize); resized {
			e.screen.Sync()
			e.dirty = true
		}
		return false
	}

	e.shiftHeld = key.Modifiers()&tcell.ModShift != 0
	m := e.craft.modules[e.selected]

	switch {
	case key.Key() == tcell.KeyEscape, key.Rune() == 'q':
		return true
	case key.Key() == tcell.KeyUp, key.Rune() == 'k':
		if e.selected > 0 {
			e.selected--
		}
	case key.Key() == tcell.KeyDown, key.Rune() == 'j':
		if e.selected < len(e.craft.modules)-1 {
			e.selected++
		}
	case key.Rune() == '+', key.Rune() == '=':
		if m.Free() {
			m.SetSelectedValue(m.Selected() * 1.1)
		} else {
			m.StepSelectedIndex(1)
		}
	case key.Rune() == '-':
		if m.Free() {
			m.SetSelectedValue(m.Selected() / 1.1)
		} else {
			m.StepSelectedIndex(-1)
		}
	case key.Rune() == 's':
		e.saveAll()
	}
	e.dirty = true
	return false
}

func (e *editor) saveAll() {
	for _, m := range e.craft.modules {
		if err := m.SaveTo(e.store); err != nil {
			log.Printf("save %s: %v", m.Part().UID, err)
			e.status = "save failed, see log"
			return
		}
	}
	e.status = "craft saved"
}

func (e *editor) render() {
	s := e.screen
	s.Clear()

	drawText(s, 0, 0, tcell.StyleDefault.Bold(true),
		"scale-editor  [j/k] select  [+/-] scale  [shift] no cascade  [s] save  [q] quit")

	row := 2
	for i, m := range e.craft.modules {
		p := m.Part()
		style := tcell.StyleDefault
		marker := "  "
		if i == e.selected {
			style = style.Foreground(tcell.ColorYellow)
			marker = "> "
		}
		if m.Disabled() {
			style = style.Foreground(tcell.ColorGray)
		}

		label := scaleLabel(m)
		cost := m.CostModifier().ComputeCost() + p.Def.ListPrice
		mass := currentMass(p)
		drawText(s, 0, row, style, fmt.Sprintf("%s%-14s %-8s cost %6.1f  mass %5.2f  pos %5.2f",
			marker, p.Def.Title, label, cost, mass, p.Transform.Position.Y))
		row++
	}

	if e.status != "" {
		drawText(s, 0, row+1, tcell.StyleDefault.Foreground(tcell.ColorGreen), e.status)
	}
	s.Show()
}

// scaleLabel renders the current scale with its class label when one is
// unlocked, falling back to the raw value with the class suffix
func scaleLabel(m *rescale.Module) string {
	cfg := m.Config()
	if cfg == nil {
		return "-"
	}
	if !m.Free() {
		names := m.AvailableNames()
		factors := m.AvailableFactors()
		for i, f := range factors {
			if f == m.Current() && i < len(names) {
				return names[i]
			}
		}
	}
	return fmt.Sprintf("%.3g%s", m.Current(), cfg.Suffix)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
