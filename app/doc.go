/*
Package app contains the ABCI application glue: the store handling with
check and deliver caches, the block context, query routing, the genesis
initialization and the decorator chain dispatching transactions to the
extension handlers.
*/
package app
