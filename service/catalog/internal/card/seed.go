package card

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// seedFile e' il formato YAML del catalogo iniziale.
type seedFile struct {
	Cards []Card `yaml:"cards"`
}

// LoadSeed legge il catalogo da path, o quello incorporato se path e' vuoto.
func LoadSeed(path string) ([]Card, error) {
	data := defaultCatalog
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", path, err)
		}
		data = content
	}
	return ParseSeed(data)
}

// ParseSeed decodifica e valida un catalogo YAML.
func ParseSeed(data []byte) ([]Card, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seenIDs := make(map[string]bool, len(file.Cards))
	seenNames := make(map[string]bool, len(file.Cards))
	cards := make([]Card, 0, len(file.Cards))
	for i, c := range file.Cards {
		if c.ID == "" {
			return nil, fmt.Errorf("seed card %d: id is required", i)
		}
		in := Input{
			Name:   c.Name,
			Arcana: c.Arcana,
			Suit:   c.Suit,
			Cost:   c.Cost,
			Attack: c.Attack,
			Health: c.Health,
			Text:   c.Text,
		}.Normalize()
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("seed card %s: %w", c.ID, err)
		}
		if seenIDs[c.ID] {
			return nil, fmt.Errorf("seed card %s: duplicate id", c.ID)
		}
		if seenNames[nameKey(in.Name)] {
			return nil, fmt.Errorf("seed card %s: duplicate name %q", c.ID, in.Name)
		}
		seenIDs[c.ID] = true
		seenNames[nameKey(in.Name)] = true
		cards = append(cards, fromInput(c.ID, in))
	}
	return cards, nil
}

func fromInput(id string, in Input) Card {
	return Card{
		ID:     id,
		Name:   in.Name,
		Arcana: in.Arcana,
		Suit:   in.Suit,
		Cost:   in.Cost,
		Attack: in.Attack,
		Health: in.Health,
		Text:   in.Text,
	}
}
