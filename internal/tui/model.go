package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pomofriends/internal/engine"
	"pomofriends/internal/storage"
	"pomofriends/internal/ui"
)

type view int

const (
	viewTimer view = iota
	viewStats
	viewAchievements
)

// tickMsg drives the ~1s cadence. The timer recomputes from wall-clock
// anchors, so a late or duplicate tick is harmless.
type tickMsg time.Time

type timerModel struct {
	ctx context.Context
	svc *engine.Service

	view   view
	width  int
	height int

	toast      string
	toastStyle string
	toastUntil time.Time
}

func newTimerModel(ctx context.Context, svc *engine.Service) timerModel {
	return timerModel{ctx: ctx, svc: svc}
}

// Run starts the interactive timer. Focus reporting stands in for
// visibility-change events: regaining focus fires an immediate resync
// tick.
func Run(ctx context.Context, svc *engine.Service) error {
	p := tea.NewProgram(newTimerModel(ctx, svc), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m timerModel) Init() tea.Cmd {
	return tickCmd()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		res := m.svc.Timer().Tick(m.ctx)
		m.noteCompletion(res.Completed)
		m.noteSignals(res.Signals)
		return m, tickCmd()

	case tea.FocusMsg:
		// Collapse any backgrounding drift in one jump.
		res := m.svc.Timer().Tick(m.ctx)
		m.noteCompletion(res.Completed)
		m.noteSignals(res.Signals)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m timerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.svc.Timer()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.view = (m.view + 1) % 3
		return m, nil
	case "1":
		m.view = viewTimer
		return m, nil
	case "2":
		m.view = viewStats
		return m, nil
	case "3":
		m.view = viewAchievements
		return m, nil

	case "s", " ", "enter":
		res := t.Start(m.ctx)
		m.noteSignals(res.Signals)
		if res.Started {
			// One immediate tick on entering a running phase.
			tick := t.Tick(m.ctx)
			m.noteCompletion(tick.Completed)
			m.noteSignals(tick.Signals)
		}
		return m, nil

	case "p":
		t.Pause()
		return m, nil

	case "c", "x":
		res := t.Cancel(m.ctx)
		m.noteCompletion(res.Completed)
		m.noteSignals(res.Signals)
		return m, nil

	case "m":
		if t.Mode() == engine.ModeCountdown {
			t.SwitchMode(engine.ModeFlow)
		} else {
			t.SwitchMode(engine.ModeCountdown)
		}
		return m, nil

	case "up", "k":
		m.setBatch(t.BatchSize() + 1)
		return m, nil
	case "down", "j":
		m.setBatch(t.BatchSize() - 1)
		return m, nil
	}
	return m, nil
}

func (m *timerModel) setBatch(n int) {
	t := m.svc.Timer()
	t.SetBatchSize(n)
	_ = m.svc.SettingsRepo().Set(m.ctx, storage.SettingBatchSize, fmt.Sprintf("%d", t.BatchSize()))
}

func (m *timerModel) noteCompletion(res *engine.CompletionResult) {
	if res == nil {
		return
	}
	if res.Credited == 1 {
		m.showToast(ui.IconDone+" Tomato complete! Rest: "+ui.FormatDuration(res.RestMinutes), "good")
	} else if res.Credited > 1 {
		bonus := (res.Credited - 1) * engine.BonusRestMinutes
		m.showToast(fmt.Sprintf("%s %d tomatoes complete! Rest: %s (+%dm bonus)",
			ui.IconDone, res.Credited, ui.FormatDuration(res.RestMinutes), bonus), "good")
	}
	for _, def := range res.NewlyUnlocked {
		m.showToast(ui.IconTrophy+" Achievement unlocked: "+def.Icon+" "+def.Name, "gold")
	}
}

func (m *timerModel) noteSignals(signals []engine.Signal) {
	for _, sig := range signals {
		switch sig {
		case engine.SignalEncourage:
			m.showToast(ui.IconFire+" Almost there, 2 minutes left!", "good")
		case engine.SignalStreakLost:
			m.showToast(ui.IconBroken+" Streak lost", "bad")
		case engine.SignalQuotaExceeded:
			m.showToast(ui.IconWarn+" Daily energy limit reached", "bad")
		case engine.SignalInterrupted:
			m.showToast(ui.IconBroken+" Tomato interrupted", "bad")
		case engine.SignalPersistError:
			m.showToast(ui.IconError+" Could not save session (kept in memory)", "bad")
		}
	}
}

func (m *timerModel) showToast(text, style string) {
	m.toast = text
	m.toastStyle = style
	m.toastUntil = time.Now().Add(5 * time.Second)
}

func (m timerModel) View() string {
	switch m.view {
	case viewStats:
		return m.statsView()
	case viewAchievements:
		return m.achievementsView()
	default:
		return m.timerView()
	}
}

func (m timerModel) timerView() string {
	snap := m.svc.Timer().Snapshot()

	var header string
	if snap.Mode == engine.ModeCountdown {
		header = ui.Heading(ui.IconTomato, "Countdown")
	} else {
		header = ui.Heading(ui.IconFlow, "Flow")
	}

	clock := ui.BigTime.Render(ui.FormatClock(snap.SecondsDisplay))
	status := ui.StatusText(string(snap.Status))

	body := header + "\n\n" + clock + "  " + status + "\n"

	switch snap.Status {
	case engine.StatusRunning:
		if snap.Mode == engine.ModeCountdown {
			body += ui.Muted.Render(fmt.Sprintf("tomato %d of %d", snap.UnitIndex, snap.BatchSize)) + "\n"
		}
	case engine.StatusResting:
		body += ui.Muted.Render(ui.IconRest+" resting "+ui.FormatDuration(snap.RestMinutes)) + "\n"
	case engine.StatusProtection:
		body += ui.Warn.Render(ui.IconShield+" start now to keep your streak!") + "\n"
	case engine.StatusIdle:
		if snap.Mode == engine.ModeCountdown {
			body += ui.Muted.Render(fmt.Sprintf("batch: %d tomato(es) · ↑/↓ to adjust", snap.BatchSize)) + "\n"
		}
	}

	if m.toast != "" && time.Now().Before(m.toastUntil) {
		style := ui.Good
		switch m.toastStyle {
		case "bad":
			style = ui.Bad
		case "gold":
			style = ui.Gold
		}
		body += "\n" + style.Render(m.toast) + "\n"
	}

	body += "\n" + ui.Dim.Render("s start · p pause · c cancel · m mode · tab views · q quit")
	return ui.Panel.Render(body)
}
