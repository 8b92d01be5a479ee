package gamedomain

// Declaration is one team's input for a round.
type Declaration struct {
	Contract     Contract     `json:"contract"`
	Realized     Realized     `json:"realized"`
	Announcement Announcement `json:"announcement"`
	Remark       Remark       `json:"remark"`
}

// ValidationResult is the outcome of CheckRound.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ComputeGap returns the distance between the contract and the realized points.
func ComputeGap(contract Contract, realized Realized) int {
	gap := contract.Value() - realized.Value()
	if gap < 0 {
		return -gap
	}
	return gap
}

// ComputeTheoreticalPoints returns what the declaration is worth ignoring the opponent.
func ComputeTheoreticalPoints(contract Contract, realized Realized, announcement Announcement) int {
	if !contract.Declared() {
		return 0
	}
	if contract.Slam() && realized.Value() == DealPoints {
		return contract.Value() + announcement.Value()
	}
	return realized.Value() + announcement.Value()
}

// ValidateRound returns the first rule the pair of declarations breaks, or nil.
func ValidateRound(a, b Declaration) error {
	if a.Contract.Declared() && b.Contract.Declared() {
		return ErrMultipleContracts
	}
	if a.Remark.Challenged() && a.Remark == b.Remark {
		return ErrMirroredRemark
	}
	if a.Announcement.Value()+b.Announcement.Value() > MaxAnnouncementTotal {
		return ErrAnnouncementOverflow
	}
	return nil
}

// CheckRound is ValidateRound in result form.
func CheckRound(a, b Declaration) ValidationResult {
	if err := ValidateRound(a, b); err != nil {
		return ValidationResult{Valid: false, Message: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// Fulfilled applies the chute rule to a declaration. A team without a
// contract is always fulfilled.
func Fulfilled(d Declaration) bool {
	contract := d.Contract.Value()
	realized := d.Realized.Value()
	belote := d.Announcement.Value()

	failed := (realized < FulfillmentFloor && contract > 0) ||
		(realized+belote < contract && contract < SlamThreshold)
	return !failed
}

// ResolvePoints scores self against opponent and reports whether self
// fulfilled its declaration. Call it once per team with the roles swapped.
func ResolvePoints(self, opponent Declaration) (int, bool) {
	fulfilled := Fulfilled(self)
	multiplier := Escalation(self.Remark, opponent.Remark).Multiplier()

	contract := self.Contract.Value()
	realized := self.Realized.Value()
	belote := self.Announcement.Value()

	switch {
	case contract == 0:
		return defenderPoints(self, opponent, multiplier), fulfilled

	case contract >= SlamThreshold:
		if realized == DealPoints {
			return multiplier*contract + belote, fulfilled
		}
		return belote, fulfilled

	case opponent.Remark.Challenged():
		if realized >= FulfillmentFloor && realized+belote >= contract {
			return multiplier*contract + realized + belote, fulfilled
		}
		return belote, fulfilled

	default:
		if realized+belote >= contract && realized >= FulfillmentFloor {
			return contract + realized + belote, fulfilled
		}
		return belote, fulfilled
	}
}

// defenderPoints scores a team that did not declare a contract.
func defenderPoints(self, opponent Declaration, multiplier int) int {
	belote := self.Announcement.Value()
	oppContract := opponent.Contract.Value()
	oppRealized := opponent.Realized.Value()

	if oppContract == 0 {
		return belote
	}

	if oppContract >= SlamThreshold && oppRealized == DealPoints {
		if self.Remark.Challenged() {
			return 0
		}
		return belote
	}

	oppFailed := oppRealized+opponent.Announcement.Value() < oppContract
	noChallenge := Escalation(self.Remark, opponent.Remark) == RemarkNone

	switch {
	case oppFailed && noChallenge:
		return DealPoints + oppContract + belote
	case oppFailed && self.Remark.Challenged():
		return multiplier*oppContract + DealPoints
	case !oppFailed && self.Remark.Challenged() && oppRealized >= FulfillmentFloor:
		return belote
	default:
		return DealPoints - oppRealized + belote
	}
}
