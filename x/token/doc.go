/*
Package token implements a fungible asset ledger in the style of the ERC-20
standard.

Every token is addressed by the address of the "token/seq/<id>" condition,
so that a token address can be used wherever an address is expected. The
ledger keeps the token description, the balance of every holder and the
allowance every holder granted to a spender.

Other extensions interact with tokens only through the Controller.
*/
package token
