/*
Package cash implements the native currency of the chain. Every address
owns a wallet holding a single balance, and coins move between wallets
only through the Controller.

Funding an escrow with the native currency is modelled as a move from the
caller wallet to the wallet of the escrow address, done by the vesting
extension through the same Controller.
*/
package cash
