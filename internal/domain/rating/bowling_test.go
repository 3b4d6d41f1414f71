package rating_test

import (
	"testing"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRateBowling(t *testing.T) {
	mc := model.MatchContext{MatchEconomy: 8.0}

	Convey("Given a bowler who did not bowl", t, func() {
		r, d := rating.RateBowling(model.BowlingEntry{Name: "x", Role: model.RoleBowler}, mc, true)

		Convey("Then the rating is neutral with a note", func() {
			So(r, ShouldEqual, 5.0)
			So(d.Note, ShouldEqual, "did not bowl")
		})
	})

	Convey("Given big wicket hauls", t, func() {
		Convey("Then five and seven wickets score the same", func() {
			_, five := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 32, Wickets: 5}, mc, false)
			_, seven := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 32, Wickets: 7}, mc, false)
			So(five.Wickets.Score, ShouldEqual, 3.0)
			So(seven.Wickets.Score, ShouldEqual, 3.0)
		})

		Convey("Then smaller hauls follow the lookup", func() {
			_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 32, Wickets: 2}, mc, false)
			So(d.Wickets.Score, ShouldEqual, 1.8)
		})
	})

	Convey("Given a full four-over spell without conceding", t, func() {
		e := model.BowlingEntry{Overs: 4, Role: model.RoleBowler}

		Convey("When the match economy is eight", func() {
			_, d := rating.RateBowling(e, mc, false)

			Convey("Then the economy adjustment is the maximum", func() {
				So(d.Economy.Score, ShouldEqual, 2.5)
				So(d.MatchEconomy, ShouldEqual, 8.0)
			})

			Convey("And the full quota is rewarded", func() {
				So(d.Quota.Value, ShouldEqual, 4.0)
				So(d.Quota.Score, ShouldEqual, 0.1)
			})
		})
	})

	Convey("Given a single-over spell without conceding", t, func() {
		_, d := rating.RateBowling(model.BowlingEntry{Overs: 1}, mc, false)

		Convey("Then the economy adjustment is halved", func() {
			So(d.Economy.Score, ShouldEqual, 1.25)
			So(d.Quota.Score, ShouldEqual, 0.0)
		})
	})

	Convey("Given a two-and-a-half over spell", t, func() {
		_, d := rating.RateBowling(model.BowlingEntry{Overs: 2.3}, mc, false)

		Convey("Then the economy adjustment is scaled by three quarters", func() {
			So(d.Economy.Score, ShouldEqual, 1.88)
		})
	})

	Convey("Given three maidens", t, func() {
		_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, Maidens: 3, RunsConceded: 10}, mc, false)

		Convey("Then the maiden bonus is capped", func() {
			So(d.Maidens.Score, ShouldEqual, 3.0)
		})
	})

	Convey("Given dismissed batters of varying scores", t, func() {
		Convey("Then each dismissal adds by the batter's score", func() {
			e := model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: 4, DismissedRuns: []int{55, 35, 20, 4}}
			_, d := rating.RateBowling(e, mc, false)
			So(d.WicketQuality.Score, ShouldAlmostEqual, 0.9, 1e-9)
			So(d.DismissedRuns, ShouldResemble, []int{55, 35, 20, 4})
		})

		Convey("Then the quality bonus is capped at one", func() {
			e := model.BowlingEntry{Overs: 4, RunsConceded: 30, Wickets: 3, DismissedRuns: []int{60, 70, 80}}
			_, d := rating.RateBowling(e, mc, false)
			So(d.WicketQuality.Score, ShouldEqual, 1.0)
		})
	})

	Convey("Given a spell with extras", t, func() {
		_, d := rating.RateBowling(model.BowlingEntry{Overs: 4, RunsConceded: 32, Wides: 2, NoBalls: 1}, mc, true)

		Convey("Then wides and no-balls are penalised", func() {
			So(d.Extras.Score, ShouldAlmostEqual, -0.3, 1e-9)
			So(d.Wides, ShouldEqual, 2)
			So(d.NoBalls, ShouldEqual, 1)
		})

		Convey("And the result is informational only", func() {
			So(d.MatchResult.Value, ShouldEqual, 1.0)
			So(d.MatchResult.Score, ShouldEqual, 0.0)
		})
	})

	Convey("Given an unplayable spell", t, func() {
		e := model.BowlingEntry{Overs: 4, Maidens: 4, Wickets: 6, DismissedRuns: []int{50, 50, 50}}
		r, _ := rating.RateBowling(e, mc, true)

		Convey("Then the rating is clamped at ten", func() {
			So(r, ShouldEqual, 10.0)
		})
	})

	Convey("Given an expensive spell full of extras", t, func() {
		e := model.BowlingEntry{Overs: 4, RunsConceded: 80, Wides: 20, NoBalls: 15}
		r, _ := rating.RateBowling(e, mc, false)

		Convey("Then the rating is clamped at zero", func() {
			So(r, ShouldEqual, 0.0)
		})
	})
}
