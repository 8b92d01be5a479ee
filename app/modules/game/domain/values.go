package gamedomain

import (
	"fmt"
	"strconv"
)

// DealPoints is the number of trick points in a single deal.
const DealPoints = 160

// SlamThreshold is the smallest contract value treated as Capot/Généralé.
const SlamThreshold = 500

// FulfillmentFloor is the trick points a declaring team needs regardless of its contract.
const FulfillmentFloor = 80

// MaxAnnouncementTotal caps the belote value both teams may announce in one deal.
const MaxAnnouncementTotal = 80

// Contract is the point target a team commits to.
type Contract uint8

const (
	ContractNone Contract = iota
	Contract80
	Contract90
	Contract100
	Contract110
	Contract120
	Contract130
	Contract140
	Contract150
	Contract160
	ContractCapot
	ContractGenerale
)

var contractTable = [...]struct {
	label string
	value int
}{
	{"0", 0},
	{"80", 80},
	{"90", 90},
	{"100", 100},
	{"110", 110},
	{"120", 120},
	{"130", 130},
	{"140", 140},
	{"150", 150},
	{"160", 160},
	{"Capot", 500},
	{"Généralé", 1000},
}

// Contracts lists every contract in declaration order.
func Contracts() []Contract {
	out := make([]Contract, len(contractTable))
	for i := range contractTable {
		out[i] = Contract(i)
	}
	return out
}

// Value returns the contract's point value, 0 for an unknown contract.
func (c Contract) Value() int {
	if int(c) >= len(contractTable) {
		return 0
	}
	return contractTable[c].value
}

func (c Contract) String() string {
	if int(c) >= len(contractTable) {
		return "Contract(" + strconv.Itoa(int(c)) + ")"
	}
	return contractTable[c].label
}

// Declared reports whether the contract commits the team to a target.
func (c Contract) Declared() bool { return c.Value() > 0 }

// Slam reports whether the contract is Capot or Généralé.
func (c Contract) Slam() bool { return c.Value() >= SlamThreshold }

// ParseContract resolves a contract label.
func ParseContract(label string) (Contract, bool) {
	for i, e := range contractTable {
		if e.label == label {
			return Contract(i), true
		}
	}
	switch label {
	case "Générale", "Generale":
		return ContractGenerale, true
	}
	return ContractNone, false
}

func (c Contract) MarshalText() ([]byte, error) {
	if int(c) >= len(contractTable) {
		return nil, fmt.Errorf("%w: contract %d", ErrUnknownValue, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts any label; unknown labels become ContractNone.
func (c *Contract) UnmarshalText(text []byte) error {
	*c, _ = ParseContract(string(text))
	return nil
}

// Realized is the trick points a team captured: 0 to 160 in steps of ten,
// or the symbolic Capot/Généralé marks which both count as 160.
type Realized uint8

const (
	RealizedCapot    Realized = 17
	RealizedGenerale Realized = 18
)

const realizedSteps = DealPoints/10 + 1

// NewRealized maps a multiple of ten between 0 and 160 to its Realized value.
func NewRealized(points int) (Realized, bool) {
	if points < 0 || points > DealPoints || points%10 != 0 {
		return 0, false
	}
	return Realized(points / 10), true
}

// RealizedValues lists every realized value in display order.
func RealizedValues() []Realized {
	out := make([]Realized, 0, realizedSteps+2)
	for i := 0; i < realizedSteps; i++ {
		out = append(out, Realized(i))
	}
	return append(out, RealizedCapot, RealizedGenerale)
}

// Value returns the realized trick points, 0 for an unknown value.
func (r Realized) Value() int {
	switch {
	case r < realizedSteps:
		return int(r) * 10
	case r == RealizedCapot, r == RealizedGenerale:
		return DealPoints
	default:
		return 0
	}
}

func (r Realized) String() string {
	switch {
	case r < realizedSteps:
		return strconv.Itoa(int(r) * 10)
	case r == RealizedCapot:
		return "Capot"
	case r == RealizedGenerale:
		return "Généralé"
	default:
		return "Realized(" + strconv.Itoa(int(r)) + ")"
	}
}

// ParseRealized resolves a realized label.
func ParseRealized(label string) (Realized, bool) {
	switch label {
	case "Capot":
		return RealizedCapot, true
	case "Généralé", "Générale", "Generale":
		return RealizedGenerale, true
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return NewRealized(n)
}

func (r Realized) MarshalText() ([]byte, error) {
	if r > RealizedGenerale {
		return nil, fmt.Errorf("%w: realized %d", ErrUnknownValue, r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts any label; unknown labels become 0.
func (r *Realized) UnmarshalText(text []byte) error {
	*r, _ = ParseRealized(string(text))
	return nil
}

// Announcement is the belote bonus a team announced.
type Announcement uint8

const (
	AnnouncementNone Announcement = iota
	Belote
	DoubleBelote
	TripleBelote
	QuadrupleBelote
)

var announcementLabels = [...]string{"N/A", "Belote", "Double Belote", "Triple Belote", "Quadruple Belote"}

// Announcements lists every announcement in increasing value.
func Announcements() []Announcement {
	return []Announcement{AnnouncementNone, Belote, DoubleBelote, TripleBelote, QuadrupleBelote}
}

// Value returns 20 points per belote held, 0 for an unknown announcement.
func (a Announcement) Value() int {
	if int(a) >= len(announcementLabels) {
		return 0
	}
	return int(a) * 20
}

func (a Announcement) String() string {
	if int(a) >= len(announcementLabels) {
		return "Announcement(" + strconv.Itoa(int(a)) + ")"
	}
	return announcementLabels[a]
}

// ParseAnnouncement resolves an announcement label. Both the spaced
// ("Double Belote") and the compact ("DoubleBelote") forms are accepted.
func ParseAnnouncement(label string) (Announcement, bool) {
	for i, l := range announcementLabels {
		if l == label {
			return Announcement(i), true
		}
	}
	switch label {
	case "DoubleBelote":
		return DoubleBelote, true
	case "TripleBelote":
		return TripleBelote, true
	case "QuadrupleBelote":
		return QuadrupleBelote, true
	}
	return AnnouncementNone, false
}

func (a Announcement) MarshalText() ([]byte, error) {
	if int(a) >= len(announcementLabels) {
		return nil, fmt.Errorf("%w: announcement %d", ErrUnknownValue, a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText accepts any label; unknown labels become AnnouncementNone.
func (a *Announcement) UnmarshalText(text []byte) error {
	*a, _ = ParseAnnouncement(string(text))
	return nil
}

// Remark is a challenge escalation.
type Remark uint8

const (
	RemarkNone Remark = iota
	Coinche
	SurCoinche
)

var remarkLabels = [...]string{"N/A", "Coinche", "Sur Coinche"}

// Remarks lists every remark in escalation order.
func Remarks() []Remark {
	return []Remark{RemarkNone, Coinche, SurCoinche}
}

// Challenged reports whether the remark is Coinche or Sur Coinche.
func (r Remark) Challenged() bool { return r == Coinche || r == SurCoinche }

// Multiplier returns the stake multiplier the remark triggers.
func (r Remark) Multiplier() int {
	switch r {
	case SurCoinche:
		return 4
	case Coinche:
		return 2
	default:
		return 1
	}
}

func (r Remark) String() string {
	if int(r) >= len(remarkLabels) {
		return "Remark(" + strconv.Itoa(int(r)) + ")"
	}
	return remarkLabels[r]
}

// ParseRemark resolves a remark label.
func ParseRemark(label string) (Remark, bool) {
	for i, l := range remarkLabels {
		if l == label {
			return Remark(i), true
		}
	}
	if label == "SurCoinche" {
		return SurCoinche, true
	}
	return RemarkNone, false
}

func (r Remark) MarshalText() ([]byte, error) {
	if int(r) >= len(remarkLabels) {
		return nil, fmt.Errorf("%w: remark %d", ErrUnknownValue, r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts any label; unknown labels become RemarkNone.
func (r *Remark) UnmarshalText(text []byte) error {
	*r, _ = ParseRemark(string(text))
	return nil
}

// Escalation returns the strongest remark declared by either team.
func Escalation(a, b Remark) Remark {
	switch {
	case a == SurCoinche || b == SurCoinche:
		return SurCoinche
	case a == Coinche || b == Coinche:
		return Coinche
	default:
		return RemarkNone
	}
}
