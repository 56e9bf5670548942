package token

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
)

func TestController(t *testing.T) {
	Convey("Given a token issued by alice", t, func() {
		db := store.MemStore()
		ctrl := NewController()
		alice := timelocktest.NewCondition().Address()
		bob := timelocktest.NewCondition().Address()
		carol := timelocktest.NewCondition().Address()

		tok, err := ctrl.Create(db, alice, "Gold", "GLD", 1000)
		So(err, ShouldBeNil)
		So(tok, ShouldResemble, Address(timelocktest.SequenceID(1)))

		Convey("The supply belongs to the issuer", func() {
			info, err := ctrl.Token(db, tok)
			So(err, ShouldBeNil)
			So(info.Supply, ShouldEqual, 1000)
			So(info.Issuer, ShouldResemble, alice)

			bal, err := ctrl.BalanceOf(db, tok, alice)
			So(err, ShouldBeNil)
			So(bal, ShouldEqual, 1000)
		})

		Convey("A second token gets the next address", func() {
			other, err := ctrl.Create(db, bob, "Silver", "SLV", 0)
			So(err, ShouldBeNil)
			So(other, ShouldResemble, Address(timelocktest.SequenceID(2)))

			bal, err := ctrl.BalanceOf(db, other, bob)
			So(err, ShouldBeNil)
			So(bal, ShouldEqual, 0)
		})

		Convey("Unknown tokens are not found", func() {
			unknown := Address(timelocktest.SequenceID(99))
			_, err := ctrl.BalanceOf(db, unknown, alice)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			err = ctrl.Transfer(db, unknown, alice, bob, 1)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			_, err = ctrl.Allowance(db, unknown, alice, bob)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})

		Convey("Transfer moves the balance", func() {
			So(ctrl.Transfer(db, tok, alice, bob, 300), ShouldBeNil)
			a, _ := ctrl.BalanceOf(db, tok, alice)
			b, _ := ctrl.BalanceOf(db, tok, bob)
			So(a, ShouldEqual, 700)
			So(b, ShouldEqual, 300)
		})

		Convey("Transfer checks the balance", func() {
			err := ctrl.Transfer(db, tok, bob, alice, 1)
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Transfer rejects a zero amount", func() {
			err := ctrl.Transfer(db, tok, alice, bob, 0)
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
		})

		Convey("Transfer to the null address is rejected", func() {
			err := ctrl.Transfer(db, tok, alice, make([]byte, 20), 1)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
			err = ctrl.Transfer(db, tok, alice, nil, 1)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("With bob approved to spend 100 of alice's tokens", func() {
			So(ctrl.Approve(db, tok, alice, bob, 100), ShouldBeNil)

			allowed, err := ctrl.Allowance(db, tok, alice, bob)
			So(err, ShouldBeNil)
			So(allowed, ShouldEqual, 100)

			Convey("TransferFrom spends the allowance", func() {
				So(ctrl.TransferFrom(db, tok, bob, alice, carol, 60), ShouldBeNil)

				allowed, _ := ctrl.Allowance(db, tok, alice, bob)
				So(allowed, ShouldEqual, 40)
				c, _ := ctrl.BalanceOf(db, tok, carol)
				So(c, ShouldEqual, 60)
				a, _ := ctrl.BalanceOf(db, tok, alice)
				So(a, ShouldEqual, 940)
			})

			Convey("TransferFrom cannot exceed the allowance", func() {
				err := ctrl.TransferFrom(db, tok, bob, alice, carol, 101)
				So(ErrAllowance.Is(err), ShouldBeTrue)
			})

			Convey("Only the approved spender can use the allowance", func() {
				err := ctrl.TransferFrom(db, tok, carol, alice, carol, 1)
				So(ErrAllowance.Is(err), ShouldBeTrue)
			})

			Convey("Allowance does not grant funds the owner lacks", func() {
				So(ctrl.Transfer(db, tok, alice, carol, 950), ShouldBeNil)
				err := ctrl.TransferFrom(db, tok, bob, alice, bob, 100)
				So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)

				allowed, _ := ctrl.Allowance(db, tok, alice, bob)
				So(allowed, ShouldEqual, 100)
			})

			Convey("Approving zero revokes the allowance", func() {
				So(ctrl.Approve(db, tok, alice, bob, 0), ShouldBeNil)
				allowed, _ := ctrl.Allowance(db, tok, alice, bob)
				So(allowed, ShouldEqual, 0)
				So(ctrl.Approve(db, tok, alice, bob, 0), ShouldBeNil)
			})
		})

		Convey("Mint increases the supply", func() {
			So(ctrl.Mint(db, tok, bob, 5), ShouldBeNil)
			info, _ := ctrl.Token(db, tok)
			So(info.Supply, ShouldEqual, 1005)
			b, _ := ctrl.BalanceOf(db, tok, bob)
			So(b, ShouldEqual, 5)

			err := ctrl.Mint(db, tok, bob, math.MaxUint64)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})
	})
}
