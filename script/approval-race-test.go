package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// createPayload is the request body for creating a withdrawal
type createPayload struct {
	PlayerName    string `json:"playerName"`
	WalletAddress string `json:"walletAddress"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// actionPayload is the request body for approve calls
type actionPayload struct {
	Actor string `json:"actor"`
}

// withdrawalBody is the subset of the API response the script inspects
type withdrawalBody struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
}

// raceOutcome aggregates the result of one withdrawal's approval race
type raceOutcome struct {
	RequestID     string
	Approvals     int
	Conflicts     int
	Unexpected    int
	ResponseTimes []time.Duration
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	withdrawals := flag.Int("n", 20, "Number of withdrawals to create")
	contenders := flag.Int("c", 10, "Concurrent approve calls per withdrawal")
	amount := flag.String("amount", "0.25", "Withdrawal amount")
	currency := flag.String("currency", "BTC", "Withdrawal currency")
	flag.Parse()

	fmt.Printf("Racing %d approvals against each of %d withdrawals at %s\n",
		*contenders, *withdrawals, *baseURL)

	client := &http.Client{Timeout: 30 * time.Second}

	outcomes := make([]raceOutcome, 0, *withdrawals)
	startTime := time.Now()

	for i := 0; i < *withdrawals; i++ {
		id, err := createWithdrawal(client, *baseURL, createPayload{
			PlayerName:    fmt.Sprintf("race-player-%d", i),
			WalletAddress: fmt.Sprintf("bc1qrace%06d", i),
			Amount:        *amount,
			Currency:      *currency,
		})
		if err != nil {
			fmt.Printf("Failed to create withdrawal %d: %v\n", i, err)
			continue
		}

		outcomes = append(outcomes, raceApprovals(client, *baseURL, id, *contenders))
	}

	printResults(outcomes, time.Since(startTime))
}

// createWithdrawal posts a new request and returns its assigned id
func createWithdrawal(client *http.Client, baseURL string, payload createPayload) (string, error) {
	body, err := postJSON(client, baseURL+"/withdrawals", payload)
	if err != nil {
		return "", err
	}

	var created withdrawalBody
	if err := json.Unmarshal(body, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("create response carried no id")
	}
	return created.ID, nil
}

// raceApprovals fires the configured number of concurrent approve calls at one
// withdrawal and counts how many won
func raceApprovals(client *http.Client, baseURL, id string, contenders int) raceOutcome {
	outcome := raceOutcome{RequestID: id}

	var lock sync.Mutex
	var wg sync.WaitGroup
	ready := make(chan struct{})

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(contender int) {
			defer wg.Done()
			<-ready

			payload, _ := json.Marshal(actionPayload{
				Actor: fmt.Sprintf("operator-%d", contender),
			})

			began := time.Now()
			resp, err := client.Post(
				fmt.Sprintf("%s/withdrawals/%s/approve", baseURL, id),
				"application/json",
				bytes.NewReader(payload),
			)
			elapsed := time.Since(began)

			lock.Lock()
			defer lock.Unlock()
			outcome.ResponseTimes = append(outcome.ResponseTimes, elapsed)

			if err != nil {
				outcome.Unexpected++
				return
			}
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusOK:
				outcome.Approvals++
			case http.StatusConflict:
				outcome.Conflicts++
			default:
				outcome.Unexpected++
			}
		}(i)
	}

	close(ready)
	wg.Wait()
	return outcome
}

// postJSON sends a payload and returns the response body for 2xx statuses
func postJSON(client *http.Client, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP status code %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func printResults(outcomes []raceOutcome, total time.Duration) {
	violations := 0
	unexpected := 0
	var allTimes []time.Duration

	for _, outcome := range outcomes {
		if outcome.Approvals != 1 {
			violations++
			fmt.Printf("❌ withdrawal %s: %d approvals won (expected exactly 1), %d conflicts\n",
				outcome.RequestID, outcome.Approvals, outcome.Conflicts)
		}
		unexpected += outcome.Unexpected
		allTimes = append(allTimes, outcome.ResponseTimes...)
	}

	sort.Slice(allTimes, func(i, j int) bool { return allTimes[i] < allTimes[j] })

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Withdrawals raced:   %d\n", len(outcomes))
	fmt.Printf("Total test time:     %.2f seconds\n", total.Seconds())
	fmt.Printf("Unexpected statuses: %d\n", unexpected)

	if len(allTimes) > 0 {
		fmt.Println("\n----------------- RESPONSE TIMES -----------------")
		fmt.Printf("Minimum: %v\n", allTimes[0])
		fmt.Printf("P50:     %v\n", allTimes[len(allTimes)*50/100])
		fmt.Printf("P95:     %v\n", allTimes[len(allTimes)*95/100])
		fmt.Printf("Maximum: %v\n", allTimes[len(allTimes)-1])
	}

	fmt.Println("\n================= CONCLUSION =================")
	if violations == 0 && unexpected == 0 {
		fmt.Println("✅ Every withdrawal was approved by exactly one contender")
	} else {
		fmt.Printf("❌ %d withdrawals violated single-approval exclusivity\n", violations)
	}
	fmt.Println("================================================")
}
