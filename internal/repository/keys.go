package repository

// Key scheme. Usernames are validated to contain no ':' so keys never collide.
const (
	usersKey              = "users"
	transactionCounterKey = "transaction:counter"

	userKeyPrefix             = "user:"
	userTransactionsKeyPrefix = "user:transactions:"
	userDepositCounterPrefix  = "user:deposit_counter:"
	userDepositsKeyPrefix     = "user:deposits:"
	depositKeyPrefix          = "deposit:"
	sessionKeyPrefix          = "session:"
)

func UsersKey() string { return usersKey }

func TransactionCounterKey() string { return transactionCounterKey }

func UserKey(username string) string { return userKeyPrefix + username }

func UserTransactionsKey(username string) string { return userTransactionsKeyPrefix + username }

func UserDepositCounterKey(username string) string { return userDepositCounterPrefix + username }

func UserDepositsKey(username string) string { return userDepositsKeyPrefix + username }

func DepositKey(username, depositID string) string {
	return depositKeyPrefix + username + ":" + depositID
}

func SessionKey(token string) string { return sessionKeyPrefix + token }
