package celebration

import (
	"time"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
)

type moveable struct {
	id    string
	name  string
	rank  Rank
	color calendar.Color
	date  func(calendar.KeyDates) time.Time
}

var moveables = []moveable{
	{"baptism-of-the-lord", "Baptism of the Lord", RankFeast, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.BaptismOfTheLord }},
	{"ash-wednesday", "Ash Wednesday", RankFeast, calendar.ColorPurple,
		func(k calendar.KeyDates) time.Time { return k.AshWednesday }},
	{"laetare-sunday", "Fourth Sunday of Lent (Laetare)", RankFeast, calendar.ColorRose,
		func(k calendar.KeyDates) time.Time { return k.Easter.AddDate(0, 0, -21) }},
	{"palm-sunday", "Palm Sunday of the Passion of the Lord", RankSolemnity, calendar.ColorRed,
		func(k calendar.KeyDates) time.Time { return k.PalmSunday }},
	{"holy-thursday", "Holy Thursday", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.HolyThursday }},
	{"good-friday", "Good Friday of the Passion of the Lord", RankSolemnity, calendar.ColorRed,
		func(k calendar.KeyDates) time.Time { return k.GoodFriday }},
	{"holy-saturday", "Holy Saturday", RankSolemnity, calendar.ColorPurple,
		func(k calendar.KeyDates) time.Time { return k.HolySaturday }},
	{"easter-sunday", "Easter Sunday of the Resurrection of the Lord", RankSolemnity, calendar.ColorGold,
		func(k calendar.KeyDates) time.Time { return k.Easter }},
	{"divine-mercy-sunday", "Divine Mercy Sunday", RankFeast, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.DivineMercy }},
	{"ascension", "Ascension of the Lord", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.Ascension }},
	{"pentecost", "Pentecost Sunday", RankSolemnity, calendar.ColorRed,
		func(k calendar.KeyDates) time.Time { return k.Pentecost }},
	{"mary-mother-of-the-church", "Blessed Virgin Mary, Mother of the Church", RankMemorial, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.MaryMotherOfChurch }},
	{"christ-eternal-high-priest", "Our Lord Jesus Christ, the Eternal High Priest", RankFeast, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.HighPriest }},
	{"trinity-sunday", "Solemnity of the Most Holy Trinity", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.TrinitySunday }},
	{"corpus-christi", "The Most Holy Body and Blood of Christ", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.CorpusChristi }},
	{"sacred-heart", "The Most Sacred Heart of Jesus", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.SacredHeart }},
	{"immaculate-heart", "Immaculate Heart of the Blessed Virgin Mary", RankMemorial, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.ImmaculateHeart }},
	{"christ-the-king", "Our Lord Jesus Christ, King of the Universe", RankSolemnity, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.ChristTheKing }},
	{"gaudete-sunday", "Third Sunday of Advent (Gaudete)", RankFeast, calendar.ColorRose,
		func(k calendar.KeyDates) time.Time { return k.Advent.AddDate(0, 0, 14) }},
	{"holy-family", "The Holy Family of Jesus, Mary and Joseph", RankFeast, calendar.ColorWhite,
		func(k calendar.KeyDates) time.Time { return k.HolyFamily }},
}

// moveableCelebrations materialises the Easter- and Advent-relative
// celebrations of one calendar year.
func moveableCelebrations(year int, policy calendar.CorpusChristiPolicy) []Celebration {
	keys := calendar.CalculateKeyDates(year, policy)

	out := make([]Celebration, 0, len(moveables))
	for _, m := range moveables {
		out = append(out, Celebration{
			ID:    m.id,
			Name:  m.name,
			Rank:  m.rank,
			Color: m.color,
			Date:  calendar.FormatDate(m.date(keys)),
		})
	}
	return out
}
