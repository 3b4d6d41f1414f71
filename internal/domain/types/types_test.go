package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/cricscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStanding(t *testing.T) {
	Convey("Given a standing", t, func() {
		s := types.Standing{Rank: 2, Player: "V Kohli", Team: "India", Role: "batter", Matches: 3, Average: 7.25, Best: 8.9, MVPs: 1}

		Convey("When it is encoded for the API", func() {
			raw, err := json.Marshal(s)
			So(err, ShouldBeNil)

			var out map[string]any
			So(json.Unmarshal(raw, &out), ShouldBeNil)

			Convey("Then it uses the snake_case field names", func() {
				So(out["player"], ShouldEqual, "V Kohli")
				So(out["average_rating"], ShouldEqual, 7.25)
				So(out["mvp_awards"], ShouldEqual, 1.0)
			})
		})
	})
}

func TestPlayerProfile(t *testing.T) {
	Convey("Given a player profile", t, func() {
		p := types.PlayerProfile{Standing: types.Standing{Player: "R Ashwin"}}

		Convey("When there is no form", func() {
			So(p.FormAverage(), ShouldEqual, 0.0)
		})

		Convey("When recent matches are present", func() {
			p.Form = []types.FormPoint{{Overall: 6.0}, {Overall: 8.0}, {Overall: 7.0}}
			So(p.FormAverage(), ShouldAlmostEqual, 7.0, 1e-9)
		})

		Convey("When encoded, the standing is flattened", func() {
			raw, err := json.Marshal(p)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"player":"R Ashwin"`)
			So(string(raw), ShouldContainSubstring, `"form":null`)
		})
	})
}
