/*
Package transfer implements the ledger transfer engine: atomic
wallet-to-wallet moves with an optional commission and an asynchronous
notification scheduled after commit.

A transfer locks the sender, recipient and commission-collector rows in
ascending wallet-id order inside one storage transaction, re-validates the
sender's balance under lock, applies relative balance adjustments and
inserts the ledger records before committing. Locking by id order (never
by sender/recipient role) is what keeps two opposing transfers over the
same wallet pair from deadlocking.

Notification scheduling happens strictly after the commit and can never
fail or delay the transfer itself.
*/
package transfer
