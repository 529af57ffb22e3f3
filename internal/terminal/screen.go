package terminal

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"asteroids/internal/game"
)

type action uint8

const (
	actThrust action = iota
	actLeft
	actRight
	actBrake
	actFire
	actBomb
	numActions
)

type Options struct {
	Background string        // path of a text file drawn behind the world
	HoldWindow time.Duration // how long a key counts as held after a press
}

// Screen is the terminal front end: it renders the world and turns key
// presses into per-frame controls. tcell reports presses, not releases, so a
// key stays active for the hold window after its last press.
type Screen struct {
	screen tcell.Screen
	log    *zap.Logger
	hold   time.Duration
	now    func() time.Time

	mu      sync.Mutex
	pressed [numActions]time.Time
	weapon  string
	quit    bool

	background []string
	bgStyle    tcell.Style
}

var (
	_ game.Input    = (*Screen)(nil)
	_ game.Renderer = (*Screen)(nil)
)

// Open initializes the real terminal.
func Open(opts Options, log *zap.Logger) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, opts, log)
}

// New wraps screen and initializes it.
func New(screen tcell.Screen, opts Options, log *zap.Logger) (*Screen, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = 150 * time.Millisecond
	}
	s := &Screen{
		screen:  screen,
		log:     log,
		hold:    opts.HoldWindow,
		now:     time.Now,
		bgStyle: tcell.StyleDefault.Background(tcell.ColorBlack),
	}
	if opts.Background != "" {
		lines, err := loadBackground(opts.Background)
		if err != nil {
			log.Warn("background unavailable, using flat fill", zap.String("path", opts.Background), zap.Error(err))
		} else {
			s.background = lines
		}
	}
	screen.HideCursor()
	screen.Clear()
	return s, nil
}

func loadBackground(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// Start reads terminal events until ctx is done or the screen is closed.
func (s *Screen) Start(ctx context.Context) {
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				s.handleKey(key)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (s *Screen) handleKey(ev *tcell.EventKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.quit = true
	case tcell.KeyUp:
		s.pressed[actThrust] = now
	case tcell.KeyDown:
		s.pressed[actBrake] = now
	case tcell.KeyLeft:
		s.pressed[actLeft] = now
	case tcell.KeyRight:
		s.pressed[actRight] = now
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'w', 'W':
			s.pressed[actThrust] = now
		case 's', 'S':
			s.pressed[actBrake] = now
		case 'a', 'A':
			s.pressed[actLeft] = now
		case 'd', 'D':
			s.pressed[actRight] = now
		case ' ':
			s.pressed[actFire] = now
		case 'b', 'B':
			s.pressed[actBomb] = now
		case '1':
			s.weapon = game.WeaponNormal.String()
		case '2':
			s.weapon = game.WeaponSpread.String()
		case '3':
			s.weapon = game.WeaponRapid.String()
		case 'q', 'Q':
			s.quit = true
		}
	}
}

// Poll returns the controls for the next frame. A weapon selection is
// delivered once.
func (s *Screen) Poll() game.Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	held := func(a action) bool {
		t := s.pressed[a]
		return !t.IsZero() && now.Sub(t) < s.hold
	}
	c := game.Controls{
		Thrust:    held(actThrust),
		TurnLeft:  held(actLeft),
		TurnRight: held(actRight),
		Brake:     held(actBrake),
		Fire:      held(actFire),
		Bomb:      held(actBomb),
		Quit:      s.quit,
		Weapon:    s.weapon,
	}
	s.weapon = ""
	return c
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}

// Render draws the world scaled to the terminal plus a one-line HUD.
func (s *Screen) Render(g *game.Game) error {
	w, h := s.screen.Size()
	if w <= 0 || h <= 1 {
		return nil
	}
	s.screen.Clear()
	s.drawBackground(w, h)

	cfg := g.Config()
	v := view{
		sx:   float64(w) / cfg.ScreenWidth,
		sy:   float64(h-1) / cfg.ScreenHeight,
		top:  1,
		w:    w,
		h:    h,
		scr:  s.screen,
		fill: s.bgStyle,
	}

	for _, p := range g.Particles() {
		style := tcell.StyleDefault.Foreground(tcell.ColorOrange)
		if p.Alpha() < 0.5 {
			style = style.Dim(true)
		}
		v.plot(p.Pos, '.', style)
	}
	for _, a := range g.Asteroids() {
		style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
		n := len(a.Vertices)
		for i := 0; i < n; i++ {
			v.line(a.Pos.Add(a.Vertices[i]), a.Pos.Add(a.Vertices[(i+1)%n]), '#', style)
		}
	}
	for _, sh := range g.Shots() {
		v.plot(sh.Pos, '*', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	for _, p := range g.PowerUps() {
		r := 'S'
		if p.Type == game.PowerUpSpeed {
			r = 'F'
		}
		v.plot(p.Pos, r, tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true))
	}
	for _, b := range g.Bombs() {
		v.plot(b.Pos, '@', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}

	st := g.State()
	if st.Active() {
		ship := g.Ship()
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if ship.Invulnerable > 0 {
			style = tcell.StyleDefault.Foreground(tcell.ColorGreen)
		}
		tri := ship.Triangle()
		for i := 0; i < 3; i++ {
			v.line(tri[i], tri[(i+1)%3], '+', style)
		}
		v.plot(tri[0], 'A', style.Bold(true))
	}

	s.drawHUD(g, w)
	s.screen.Show()
	return nil
}

func (s *Screen) drawBackground(w, h int) {
	for y := 1; y < h; y++ {
		line := ""
		if i := y - 1; i < len(s.background) {
			line = s.background[i]
		}
		x := 0
		for _, r := range line {
			if x >= w {
				break
			}
			s.screen.SetContent(x, y, r, nil, s.bgStyle.Foreground(tcell.ColorDarkSlateGray))
			x++
		}
		for ; x < w; x++ {
			s.screen.SetContent(x, y, ' ', nil, s.bgStyle)
		}
	}
}

func (s *Screen) drawHUD(g *game.Game, w int) {
	st := g.State()
	ship := g.Ship()
	parts := []string{
		fmt.Sprintf("SCORE %d", st.Score()),
		fmt.Sprintf("LIVES %d", st.Lives()),
		"WEAPON " + ship.Weapon.Kind.String(),
	}
	if ship.Invulnerable > 0 {
		parts = append(parts, fmt.Sprintf("SHIELD %.1f", ship.Invulnerable))
	}
	if ship.SpeedBoost > 0 {
		parts = append(parts, fmt.Sprintf("BOOST %.1f", ship.SpeedBoost))
	}
	if t := st.RespawnTimer(); t > 0 {
		parts = append(parts, fmt.Sprintf("RESPAWN %.1f", t))
	}
	if st.GameOver() {
		parts = append(parts, "GAME OVER")
	}
	hud := strings.Join(parts, "  ")
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(hud) {
			r = rune(hud[x])
		}
		s.screen.SetContent(x, 0, r, nil, style)
	}
}
