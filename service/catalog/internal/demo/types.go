package demo

// Side identifica uno dei due giocatori simulati.
type Side string

const (
	SideNorth Side = "north"
	SideSouth Side = "south"
)

// Action e' il tipo di passo della simulazione.
type Action string

const (
	ActionStart  Action = "start"
	ActionDraw   Action = "draw"
	ActionPlay   Action = "play"
	ActionAttack Action = "attack"
	ActionPass   Action = "pass"
	ActionFinish Action = "finish"
)

// Step e' un passo della partita; le vite sono quelle dopo il passo.
type Step struct {
	Index     int    `json:"index"`
	Turn      int    `json:"turn"`
	Actor     Side   `json:"actor,omitempty"`
	Action    Action `json:"action"`
	CardID    string `json:"cardId,omitempty"`
	CardName  string `json:"cardName,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	NorthLife int    `json:"northLife"`
	SouthLife int    `json:"southLife"`
}

// Run e' il risultato completo di una partita headless.
type Run struct {
	Seed  string `json:"seed"`
	Steps []Step `json:"steps"`
}
