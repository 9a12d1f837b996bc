package domain

// Settlement is the zero-sum score outcome of a finished match.
type Settlement struct {
	BaseScore  int64
	Multiplier int64
	Bombs      int
	Rockets    int
	Spring     bool
	AntiSpring bool
	// Deltas maps user ID to the signed score change. The three deltas
	// always sum to zero.
	Deltas map[string]int64
}

// landlordDoubling is the landlord's inherent stake doubling versus each
// farmer.
const landlordDoubling = 1

// CalculateSettlement computes final per-player score deltas from the
// play history and roles. The match must be finished.
func CalculateSettlement(m *Match) Settlement {
	s := Settlement{
		BaseScore: m.BaseScore,
		Deltas:    make(map[string]int64, PlayerCount),
	}

	landlordPlays := 0
	farmerPlays := 0
	for _, rec := range m.PlayHistory {
		switch rec.Pattern.Type {
		case Bomb:
			s.Bombs++
		case Rocket:
			s.Rockets++
		}
		if rec.Seat == m.LandlordSeat {
			landlordPlays++
		} else {
			farmerPlays++
		}
	}

	landlordWon := m.WinnerRole() == RoleLandlord
	s.Spring = landlordWon && farmerPlays == 0
	s.AntiSpring = !landlordWon && landlordPlays == 1

	s.Multiplier = int64(1) << landlordDoubling
	for i := 0; i < s.Bombs; i++ {
		s.Multiplier *= 3
	}
	for i := 0; i < s.Rockets; i++ {
		s.Multiplier *= 8
	}
	if s.Spring || s.AntiSpring {
		s.Multiplier *= 16
	}

	// Each farmer wins or loses one unit; the landlord's delta is the sum
	// of both farmer magnitudes.
	unit := m.BaseScore * s.Multiplier / (1 << landlordDoubling)
	for _, p := range m.Players {
		if p.Seat == m.LandlordSeat {
			continue
		}
		if landlordWon {
			s.Deltas[p.UserID] = -unit
		} else {
			s.Deltas[p.UserID] = unit
		}
	}
	landlord := m.Players[m.LandlordSeat]
	if landlordWon {
		s.Deltas[landlord.UserID] = 2 * unit
	} else {
		s.Deltas[landlord.UserID] = -2 * unit
	}

	return s
}
