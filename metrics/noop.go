// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type nopProvider struct{}

func (nopProvider) counter(string) CountMeter                                { return nop{} }
func (nopProvider) counterVec(string, []string) CountVecMeter                { return nop{} }
func (nopProvider) gaugeVec(string, []string) GaugeVecMeter                  { return nop{} }
func (nopProvider) histogramVec(string, []string, []int64) HistogramVecMeter { return nop{} }
func (nopProvider) handler() http.Handler                                    { return http.NotFoundHandler() }

type nop struct{}

func (nop) Add(int64)                                  {}
func (nop) AddWithLabel(int64, map[string]string)      {}
func (nop) SetWithLabel(int64, map[string]string)      {}
func (nop) ObserveWithLabels(int64, map[string]string) {}
