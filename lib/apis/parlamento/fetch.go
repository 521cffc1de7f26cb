package parlamento

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Dataset is one open-data download of the Parliament portal. The urls
// are the XVII-legislature exports listed on
// parlamento.pt/Cidadania/Paginas/DadosAbertos.aspx.
type Dataset struct {
	Name string
	Url  string
}

var Datasets = []Dataset{
	{
		Name: "informacao_base",
		Url:  "https://app.parlamento.pt/webutils/docs/doc.txt?path=a4zfhVMRlkdx8PM4w%2fg1C1Vt1TLL3nxEyDWBwgqjBdJ7w%2f%2bbRwjvq2lIPr1xRzJ6DBy%2fOxQCKfWDla%2fScSjS6%2f0N3a%2b%2b%2bTVRcUvCJTkFrTAUT%2bpzIFRAScSKhiWv2HGWkAHIxlwTIeOsSOOsrXmbVE%2bHE%2fHLJ6RWbSsJBaLWq70lF4rBy8G6GbdPHdrrdiatO%2fCimTiuyO8Wki6C7zu5Klq5f53YZ%2b4MtX8FF5lC1pyiQrC%2bwSVBcu%2brHigPkI56fz8xBGvxVgoQ0nQdAuby1qmhEyYT6RCxaQAqbqv0m70pJF19SyzE62kUF%2fYRio8PiC5DjRA4%2b2eF1X7FfO4s7Bfcq7lsR9LR2PCbXn9zBNQ9mqEnp0H%2brT%2f5vD%2fgcT%2bzF3SPcKfuZKhhDvK1cBgse9ktAzWSZxzzqgCqsUeQ760%3d&fich=InformacaoBaseXVII_json.txt&Inline=true",
	},
	{
		Name: "agenda",
		Url:  "https://app.parlamento.pt/webutils/docs/doc.txt?path=g25ZKRvxj7E%2bCuDT3BoxJKbdRNwmcYXtDyTuONx177jIzjV1iQEe7XWX%2b7%2fJUNBH44hpZdfF4HzOP16W6E0lR8eot3IlY7TgTVcWImO0oJgRev1hYgkUTv5d65p0xnT1CrxFg94PU28ExjUn%2fis5CM6y4exOfKkT2facldXDSymtw8B925QnPFu3bGHaUy3tNBWgcuBTKioEyw1AGDmt2RGPiQL0IkviQhm89hMl8Giho6fBjqvYCNJUtOrViFRa7JANbUzfcTwv3wQMaXqgEJXPmJpXXNrehBlmZz%2fgsK7xX93pnvh5Hd%2f6vTFp8fiFqY6rFXSHedRs7x0%2blGrZVyCL5GHNzr0kx9%2fTn7HuAn5LRjPAHZzIn32e70j2ejDTmluroJqE%2bPSjuMirn%2bWOOw%3d%3d&fich=AgendaParlamentar_json.txt&Inline=true",
	},
	{
		Name: "atividades",
		Url:  "https://app.parlamento.pt/webutils/docs/doc.txt?path=e1YJBaCJaLQK8BASoFHdlARZwZA5hyhPh5vP0APddrwNl69a1wHYpmA3RQoAqxhbXnLIszOaHdfWRZHIIlZaMkLnjq1ZCO2YGG5GKoYbRWmrGbDBP9i6aup%2fDmNgFv8k7l8z%2bBFOZTjUtIxu%2bNZVfT67IVFOQN%2bj2aJvKpDTqr5IQ67%2ffrTpoFYo%2b19eDltEPk%2ftAA8dPgHIjmnFnFt8%2f6%2bFRyowASGEjWOPgVSAW%2bY2kRvgIl5f07BcTYq%2fp7PMVR8MRccoEgv6dwCvaj0VGt2ZrJUPgaAbvV0Z06lWk%2boGu6MFb3kAQnX1kFWn33d2rE64nk7zDYlXd18EAGj6c3UQsj4UtT%2fbNR0VXC6Z%2fmc%3d&fich=AtividadesXVII_json.txt&Inline=true",
	},
	{
		Name: "iniciativas",
		Url:  "https://app.parlamento.pt/webutils/docs/doc.txt?path=Yz8kckc%2fHKUrwsW5K50QhxjWY9xUh9OHGQI1m8LzCYqid4%2bQA61kIcK%2fkcXn0ch3QBk8i38ciIwq8%2b5WlsgEmok3%2fiP%2fmgbCMayFdyVZziZOuis%2bEQjEB4UqSyViYoIt7yC5YLIdbQtXXB6u2UedPJ%2bxanNa0TetcHCXLoWeDxEGMn5Wc8XVaSuF4g%2ftt9JVkxpA4RelGdYOw30DJNx25X7u%2bsw3LsDCKpRYtb9X3dYPeQ6aO3162M%2bFWnYaf32NwiTs7j7qym%2f%2bI%2bfA2JUpan9A3%2fcQNnVarImiljhv6X1vGI1h%2fPxi0PtQPKg8ffPTXdFLok%2fzeZDpprEEeW34axU6%2b6YFKcmH3bAm%2fssYCoc%3d&fich=IniciativasXVII_json.txt&Inline=true",
	},
}

// SnapshotTimestamp names a snapshot directory after the current time,
// with colons swapped out so the name is filesystem safe everywhere.
func SnapshotTimestamp(now time.Time) string {
	return strings.ReplaceAll(now.Format(time.RFC3339), ":", "-")
}

// FetchDatasets downloads every dataset into <snapshotRoot>/<timestamp>/.
// Any download failure is fatal: a partial snapshot must not be
// transformed.
func FetchDatasets(ctx context.Context, client *resty.Client, snapshotRoot, timestamp string, politeness time.Duration) error {
	dir := filepath.Join(snapshotRoot, timestamp)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	for i, d := range Datasets {
		if i > 0 && politeness > 0 {
			select {
			case <-time.After(politeness):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		slog.InfoContext(ctx, "fetching dataset", "name", d.Name)
		res, err := client.R().SetContext(ctx).Get(d.Url)
		if err != nil {
			return fmt.Errorf("download %s: %w", d.Name, err)
		}
		if res.IsError() {
			return fmt.Errorf("download %s: http %d", d.Name, res.StatusCode())
		}

		path := filepath.Join(dir, d.Name+".json")
		err = os.WriteFile(path, res.Body(), 0o644)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.InfoContext(ctx, "dataset written", "name", d.Name, "bytes", len(res.Body()))
	}
	return nil
}

// LoadBaseInfo reads and validates informacao_base.json from a snapshot dir.
func LoadBaseInfo(snapshotDir string) (*BaseInfo, error) {
	var out BaseInfo
	err := loadJSON(filepath.Join(snapshotDir, "informacao_base.json"), &out)
	if err != nil {
		return nil, err
	}
	err = out.Validate()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func LoadIniciativas(snapshotDir string) ([]Iniciativa, error) {
	var out []Iniciativa
	err := loadJSON(filepath.Join(snapshotDir, "iniciativas.json"), &out)
	return out, err
}

func LoadAtividades(snapshotDir string) (*Atividades, error) {
	var out Atividades
	err := loadJSON(filepath.Join(snapshotDir, "atividades.json"), &out)
	return &out, err
}

func loadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	err = json.Unmarshal(raw, v)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
