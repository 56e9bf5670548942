/*
Package vesting implements single-use time-locked escrows.

An escrow is created by its owner for a beneficiary. The owner funds it
exactly once, either with the native currency or with a fungible token,
and sets an unlock time. Once the unlock time is reached the beneficiary
can withdraw the whole amount, exactly once.

	Unfunded --fund (owner)--> Funded --withdraw (beneficiary)--> Withdrawn

No transition reverses. A withdrawn escrow is kept in the store and can
still be queried.

Every escrow is independent. The assets it holds are kept by the escrow
address, derived from the escrow ID, and can only be moved by the withdraw
operations.
*/
package vesting
