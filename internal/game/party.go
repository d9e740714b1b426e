package game

// Character names a party member. The set is fixed.
type Character string

const (
	Rojo   Character = "rojo"
	Blue   Character = "blue"
	Midori Character = "midori"
)

// Characters is the stable party order used by action choice and by the
// party phase of turn resolution.
var Characters = []Character{Rojo, Blue, Midori}

// CharacterSphere maps each character to the sphere type that powers it.
var CharacterSphere = map[Character]SphereType{
	Rojo:   Red,
	Blue:   Cyan,
	Midori: Green,
}

// Valid reports whether c is a known party member.
func (c Character) Valid() bool {
	_, ok := CharacterSphere[c]
	return ok
}

// Sphere returns the character's own sphere type.
func (c Character) Sphere() SphereType {
	return CharacterSphere[c]
}

// BattleAction is a character's choice for the turn.
type BattleAction string

const (
	ActionAttack BattleAction = "attack"
	ActionDefend BattleAction = "defend"
)

// Valid reports whether a is attack or defend.
func (a BattleAction) Valid() bool {
	return a == ActionAttack || a == ActionDefend
}

// PartyMember holds one character's combat stats.
type PartyMember struct {
	Character Character `json:"character"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"max_hp"`
	Atk       int       `json:"atk"`
}

// Active reports whether the member can still act. Knocked out members are
// never revived.
func (m PartyMember) Active() bool { return m.HP > 0 }

// Party is the full roster keyed by character.
type Party map[Character]*PartyMember

// EnemyStatus is the boss state. Only party attacks change it.
type EnemyStatus struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
}

// TurnInputs is the set of per-character actions chosen for one turn.
type TurnInputs map[Character]BattleAction

// PartyActionResult records what one character did in the party phase.
type PartyActionResult struct {
	Character Character    `json:"character"`
	Action    BattleAction `json:"action"`
	Damage    int          `json:"damage"`
	// Death is true when the enemy is at 0 HP after this action.
	Death bool `json:"death"`
}

// EnemyHit is the damage dealt to one character by the enemy.
type EnemyHit struct {
	Character Character `json:"character"`
	Damage    int       `json:"damage"`
	// Death is true when the character is at 0 HP after the hit.
	Death bool `json:"death"`
}

// EnemyActionResult describes the enemy phase. AllOut attacks hit every
// active character; single attacks carry exactly one hit.
type EnemyActionResult struct {
	AllOut bool       `json:"all_out"`
	Hits   []EnemyHit `json:"hits"`
}

// TurnResult is the outcome of one resolved turn. EnemyActionResult is nil
// when the enemy did not act.
type TurnResult struct {
	Turn               int                             `json:"turn"`
	PartyActionResults map[Character]PartyActionResult `json:"party_action_results"`
	EnemyActionResult  *EnemyActionResult              `json:"enemy_action_result,omitempty"`
	StockCounts        StockCounts                     `json:"stock_counts"`
	// Summary is a human-readable account of the turn, one line per event.
	Summary string `json:"summary"`
}
