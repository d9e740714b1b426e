package chain

// Minimal ABIs for the two read-only calls the battle server makes.
const (
	bossStatsABI = `[{"inputs":[],"name":"getAttackParameters","outputs":[{"internalType":"uint256","name":"","type":"uint256"},{"internalType":"uint256","name":"","type":"uint256"},{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

	sphereQuizNFTABI = `[{"inputs":[],"name":"bossHP","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

	methodAttackParameters = "getAttackParameters"
	methodBossHP           = "bossHP"
)
