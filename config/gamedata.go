package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"bauernschach/game"
	"bauernschach/utils"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed gamedata.json
var defaultGameData []byte

var playerKinds = []string{string(game.Human), string(game.AI)}

// GameData mirrors the gamedata document. JSON documents are valid YAML, so
// both formats decode through the same path.
type GameData struct {
	Map       MapData             `yaml:"map"`
	PawnTypes map[string]PawnType `yaml:"pawnTypes"`
	Players   []PlayerData        `yaml:"players"`
}

type MapData struct {
	Size      []int   `yaml:"size"` // [rows, cols]
	Obstacles [][]int `yaml:"obstacles"`
}

// PawnType is one unit type. Appearance data in the document belongs to the
// renderer and is not decoded.
type PawnType struct {
	MovementPatterns  [][]int `yaml:"movementPatterns"` // [dx, dy, kind, unused]
	CooldownAfterMove int     `yaml:"cooldownAfterMove"`
}

type PlayerData struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Type  string     `yaml:"type"`
	Pawns []PawnData `yaml:"pawns"`
}

type PawnData struct {
	ID       string `yaml:"id"`
	Position []int  `yaml:"position"` // [row, col]
	Type     string `yaml:"type"`
	Downtime int    `yaml:"downtime"`
}

// Load reads a gamedata document from path.
func Load(path string) (*GameData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game data: %w", err)
	}
	return Parse(data)
}

// Parse decodes a gamedata document.
func Parse(data []byte) (*GameData, error) {
	var gd GameData
	if err := yaml.Unmarshal(data, &gd); err != nil {
		return nil, fmt.Errorf("failed to decode game data: %w", err)
	}
	return &gd, nil
}

// Default returns the built-in 8x8 game: one human against one AI.
func Default() *GameData {
	gd, err := Parse(defaultGameData)
	if err != nil {
		panic(fmt.Sprintf("embedded game data is invalid: %v", err))
	}
	return gd
}

// AllAI returns a copy of the document in which every player is an AI
// player, for self-play. The receiver is left as is.
func (gd *GameData) AllAI() *GameData {
	cp := *gd
	cp.Players = make([]PlayerData, len(gd.Players))
	for i, pd := range gd.Players {
		pd.Type = string(game.AI)
		cp.Players[i] = pd
	}
	return &cp
}

// Setup converts the document into a validated game setup. Errors in the
// document are reported as *game.ConfigurationError.
func (gd *GameData) Setup() (game.Setup, error) {
	if len(gd.Map.Size) != 2 {
		return game.Setup{}, configErr("map", "size must be [rows, cols], got %v", gd.Map.Size)
	}
	var obstacles []game.Cell
	for _, o := range gd.Map.Obstacles {
		c, err := cellOf(o)
		if err != nil {
			return game.Setup{}, configErr("map", "obstacle: %v", err)
		}
		obstacles = append(obstacles, c)
	}
	board, err := game.NewBoard(gd.Map.Size[1], gd.Map.Size[0], obstacles...)
	if err != nil {
		return game.Setup{}, err
	}

	types, err := gd.unitTypes()
	if err != nil {
		return game.Setup{}, err
	}
	catalog, err := game.NewCatalog(types)
	if err != nil {
		return game.Setup{}, err
	}

	players := make([]*game.Player, 0, len(gd.Players))
	for i, pd := range gd.Players {
		p, err := pd.player(i)
		if err != nil {
			return game.Setup{}, err
		}
		players = append(players, p)
	}
	return game.Setup{Board: board, Catalog: catalog, Players: players}, nil
}

func (gd *GameData) unitTypes() ([]game.UnitType, error) {
	ids := make([]string, 0, len(gd.PawnTypes))
	for id := range gd.PawnTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	types := make([]game.UnitType, 0, len(ids))
	for _, id := range ids {
		pt := gd.PawnTypes[id]
		t := game.UnitType{ID: id, CooldownAfterMove: pt.CooldownAfterMove}
		for i, mp := range pt.MovementPatterns {
			if len(mp) != 3 && len(mp) != 4 {
				return nil, &game.ConfigurationError{
					Subject: "type " + id,
					Rule:    i,
					Reason:  fmt.Sprintf("movement pattern must be [dx, dy, kind, unused], got %v", mp),
				}
			}
			r := game.MovementRule{DX: mp[0], DY: mp[1], Kind: game.MoveKind(mp[2])}
			if len(mp) == 4 {
				r.Reserved = mp[3]
			}
			t.Rules = append(t.Rules, r)
		}
		types = append(types, t)
	}
	return types, nil
}

func (pd PlayerData) player(index int) (*game.Player, error) {
	id := pd.ID
	if id == "" {
		id = pd.Name
	}
	if id == "" {
		id = fmt.Sprintf("player-%d", index+1)
	}
	if utils.FindIndex(playerKinds, pd.Type) < 0 {
		return nil, configErr("player "+id, "type must be human or ai, got %q", pd.Type)
	}

	p := &game.Player{ID: id, Name: pd.Name, Kind: game.PlayerKind(pd.Type)}
	if p.Name == "" {
		p.Name = id
	}
	for _, pawn := range pd.Pawns {
		c, err := cellOf(pawn.Position)
		if err != nil {
			return nil, configErr("player "+id, "pawn position: %v", err)
		}
		unitID := pawn.ID
		if unitID == "" {
			unitID = uuid.NewString()
		}
		p.Units = append(p.Units, &game.Unit{
			ID:       unitID,
			Position: c,
			TypeID:   pawn.Type,
			OwnerID:  id,
			Cooldown: pawn.Downtime,
		})
	}
	return p, nil
}

func cellOf(pos []int) (game.Cell, error) {
	if len(pos) != 2 {
		return game.Cell{}, fmt.Errorf("want [row, col], got %v", pos)
	}
	return game.Cell{Row: pos[0], Col: pos[1]}, nil
}

func configErr(subject, format string, args ...any) *game.ConfigurationError {
	return &game.ConfigurationError{Subject: subject, Rule: -1, Reason: fmt.Sprintf(format, args...)}
}
