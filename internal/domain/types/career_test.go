package types_test

import (
	"testing"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func innings(runs, balls, sixes int, out model.Dismissal, overall float64) model.PlayerRating {
	return model.PlayerRating{
		Overall: overall, DidBat: out != model.DismissalDidNotBat,
		Figures: model.Figures{Runs: runs, Balls: balls, Sixes: sixes, Dismissal: out},
	}
}

func spell(wickets, balls, conceded int, overall float64) model.PlayerRating {
	return model.PlayerRating{
		Overall: overall, DidBowl: true,
		Figures: model.Figures{Wickets: wickets, BallsBowled: balls, RunsConceded: conceded},
	}
}

func TestCareer(t *testing.T) {
	Convey("Given a career built from several matches", t, func() {
		var c types.Career
		c.Add(innings(104, 60, 6, model.DismissalCaught, 9.1))
		c.Add(innings(50, 38, 2, model.DismissalNotOut, 7.0))
		c.Add(innings(0, 1, 0, model.DismissalBowled, 2.4))
		c.Add(innings(0, 0, 0, model.DismissalDidNotBat, 5.0))
		c.Add(spell(5, 24, 20, 8.5))
		c.Add(spell(3, 22, 30, 6.9))

		Convey("Then batting milestones are counted once per innings", func() {
			So(c.BattingInnings, ShouldEqual, 3)
			So(c.Runs, ShouldEqual, 154)
			So(c.Hundreds, ShouldEqual, 1)
			So(c.Fifties, ShouldEqual, 1)
			So(c.Ducks, ShouldEqual, 1)
			So(c.Sixes, ShouldEqual, 8)
		})

		Convey("Then bowling hauls are counted", func() {
			So(c.BowlingInnings, ShouldEqual, 2)
			So(c.Wickets, ShouldEqual, 8)
			So(c.FiveWickets, ShouldEqual, 1)
			So(c.ThreeWickets, ShouldEqual, 1)
			So(float64(c.Overs()), ShouldAlmostEqual, 7.4, 1e-9)
			So(c.Economy(), ShouldEqual, 6.52)
			So(c.BowlingAverage(), ShouldEqual, 6.25)
			So(c.BowlingStrikeRate(), ShouldEqual, 5.75)
		})

		Convey("Then ratings of 7.0 or better are high ratings", func() {
			So(c.HighRatings, ShouldEqual, 3)
		})

		Convey("Then the awards follow the totals", func() {
			awards := types.Awards(c, 6, 2)
			kinds := make([]string, len(awards))
			for i, a := range awards {
				kinds[i] = a.Kind
			}
			So(kinds, ShouldResemble, []string{
				types.AwardMVP, types.AwardHundreds, types.AwardFifties,
				types.AwardFiveWickets, types.AwardThreeWickets, types.AwardConsistent, types.AwardDucks,
			})
		})
	})

	Convey("Given an empty career", t, func() {
		var c types.Career

		Convey("Then every rate is zero and no award is earned", func() {
			So(c.StrikeRate(), ShouldEqual, 0.0)
			So(c.Economy(), ShouldEqual, 0.0)
			So(c.BowlingAverage(), ShouldEqual, 0.0)
			So(c.BoundaryPercentage(), ShouldEqual, 0.0)
			So(types.Awards(c, 0, 0), ShouldBeEmpty)
		})
	})

	Convey("Given a big hitter", t, func() {
		c := types.Career{BattingInnings: 3, Runs: 90, Balls: 50, Fours: 3, Sixes: 10}

		Convey("Then ten sixes earn the six machine award", func() {
			awards := types.Awards(c, 3, 0)
			So(len(awards), ShouldEqual, 1)
			So(awards[0].Kind, ShouldEqual, types.AwardSixMachine)
			So(awards[0].Count, ShouldEqual, 10)
			So(c.StrikeRate(), ShouldEqual, 180.0)
			So(c.BoundaryPercentage(), ShouldEqual, 80.0)
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given profiles for each role family", t, func() {
		profile := func(role model.Role) types.PlayerProfile {
			return types.PlayerProfile{Standing: types.Standing{Player: "x", Role: role, Matches: 4, MVPs: 1}}
		}

		Convey("Then keepers compare as batters and all-rounders as all-rounders", func() {
			So(types.Compare(profile(model.RoleWicketKeeper)).Type, ShouldEqual, types.PlayerTypeBatter)
			So(types.Compare(profile(model.RoleBatter)).Type, ShouldEqual, types.PlayerTypeBatter)
			So(types.Compare(profile(model.RoleBowler)).Type, ShouldEqual, types.PlayerTypeBowler)
			So(types.Compare(profile(model.RoleBowlingAllRounder)).Type, ShouldEqual, types.PlayerTypeAllRounder)
		})

		Convey("Then rates without innings are zero", func() {
			c := types.Compare(profile(model.RoleBatter))
			So(c.RunsPerInnings, ShouldEqual, 0.0)
			So(c.WicketsPerInnings, ShouldEqual, 0.0)
			So(c.MVPRate, ShouldEqual, 25.0)
		})
	})
}
